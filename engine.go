package rebalance

import (
	"fmt"
	"strings"
)

// ActionKind is either Buy or Sell.
type ActionKind int

const (
	Buy ActionKind = iota
	Sell
)

func (k ActionKind) String() string {
	if k == Sell {
		return "SELL"
	}
	return "BUY"
}

// MarshalText implements encoding.TextMarshaler.
func (k ActionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Rounding is the share rounding policy.
type Rounding int

const (
	// Fractional trades the exact amount, with fractional shares.
	Fractional Rounding = iota
	// WholeShares floors every share count to an integer.
	WholeShares
)

func (r Rounding) String() string {
	if r == WholeShares {
		return "whole"
	}
	return "fractional"
}

// ParseRounding parses "fractional" or "whole" (empty means fractional).
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fractional":
		return Fractional, nil
	case "whole", "whole-shares":
		return WholeShares, nil
	}
	return Fractional, fmt.Errorf("unknown rounding %q, want fractional or whole", s)
}

// TradeAction is a single trade instruction on one symbol.
type TradeAction struct {
	Symbol string
	Kind   ActionKind
	Shares Quantity
	Price  Money
	Amount Money // Shares * Price
	// Unpriced is set when the symbol could not be priced; shares and amount are zero.
	Unpriced bool
}

func (a TradeAction) String() string {
	if a.Unpriced {
		return fmt.Sprintf("%s %s: no price", a.Kind, a.Symbol)
	}
	return fmt.Sprintf("%s %s %s @ %s = %s", a.Kind, a.Shares.Fixed(), a.Symbol, a.Price, a.Amount)
}

func (a TradeAction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", a.Symbol)
	w.Append("kind", a.Kind)
	w.Append("shares", a.Shares)
	w.Append("price", a.Price)
	w.Append("amount", a.Amount)
	w.Optional("unpriced", a.Unpriced)
	return w.MarshalJSON()
}

// ClassInstruction is the outcome for one asset class.
type ClassInstruction struct {
	Category string `json:"category"`
	// CurrentAllocation is measured against the account value before withdrawal.
	CurrentAllocation    Percent `json:"currentAllocation"`
	DesiredAllocation    Percent `json:"desiredAllocation"`
	AllocationDifference Percent `json:"allocationDifference"`
	// ResultingAllocation is measured against the account value after withdrawal.
	ResultingAllocation Percent       `json:"resultingAllocation"`
	Actions             []TradeAction `json:"actions"`

	CurrentValue   Money `json:"currentValue"`
	DesiredValue   Money `json:"desiredValue"`
	ResultingValue Money `json:"resultingValue"`
	// Shortfall is the part of the requested sell that could not be realized.
	Shortfall Money `json:"shortfall"`
}

// Request holds the account dependent inputs of Generate.
type Request struct {
	AccountValue        Money // before withdrawal
	DesiredAccountValue Money // AccountValue minus the withdrawal
	Holdings            []Holding
	Withdrawing         bool
	Taxable             bool
	Rounding            Rounding
}

// Generate computes the instructions of every asset class, in table order.
// totals are the current values per category, as returned by Aggregate.
func Generate(t *Targets, totals map[string]Money, req Request) ([]ClassInstruction, []Diagnostic) {
	g := &generator{req: req}
	instructions := make([]ClassInstruction, 0, t.Len())
	for c := range t.Classes() {
		instructions = append(instructions, g.class(c, totals[c.Category]))
	}
	return instructions, g.diagnostics
}

type generator struct {
	req         Request
	diagnostics []Diagnostic
}

func (g *generator) report(kind DiagnosticKind, c AssetClass, symbol, format string, args ...any) {
	d := Diagnostic{
		Kind:     kind,
		Category: c.Category,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
	if kind == MissingPrice {
		d.Err = &LookupError{Category: c.Category, Symbol: symbol}
	}
	g.diagnostics = append(g.diagnostics, d)
}

func (g *generator) class(c AssetClass, current Money) ClassInstruction {
	desired := g.req.DesiredAccountValue.Mul(Q(c.Allocation))
	difference := desired.Sub(current)

	ci := ClassInstruction{
		Category:          c.Category,
		CurrentValue:      current,
		DesiredValue:      desired,
		CurrentAllocation: current.Ratio(g.req.AccountValue),
		DesiredAllocation: FromFraction(c.Allocation),
		Shortfall:         M(0, desired.Currency()),
		Actions:           []TradeAction{},
	}
	ci.AllocationDifference = ci.DesiredAllocation - ci.CurrentAllocation

	switch {
	case !difference.IsNegative():
		ci.Actions = g.buy(c, difference)
	case g.req.Taxable && !g.req.Withdrawing:
		g.report(SuppressedSell, c, "", "ignoring taxable account sells for %q (%s)", c.Category, strings.Join(c.Symbols(), ", "))
	default:
		ci.Actions, ci.Shortfall = g.sell(c, difference.Neg())
	}

	Summarize(&ci, g.req.DesiredAccountValue)
	return ci
}

// buy always returns exactly one action on the primary symbol.
func (g *generator) buy(c AssetClass, amount Money) []TradeAction {
	h, ok := lookup(g.req.Holdings, c.Primary)
	if !ok || !h.Price.IsPositive() {
		g.report(MissingPrice, c, c.Primary, "cannot buy %s for %q: no price available", c.Primary, c.Category)
		zero := M(0, amount.Currency())
		return []TradeAction{{Symbol: c.Primary, Kind: Buy, Price: zero, Amount: zero, Unpriced: true}}
	}
	return []TradeAction{g.trade(Buy, c.Primary, h.Price, amount)}
}

// sell liquidates amount across the sell candidates, in order, never selling
// more than a holding is worth. It returns the unrealized remainder.
func (g *generator) sell(c AssetClass, amount Money) ([]TradeAction, Money) {
	if g.req.Taxable && len(c.Holdovers) > 0 {
		g.report(TaxLotReview, c, "", "suggesting a sell of %q in a taxable account with holdover positions (%s): review tax lots", c.Category, strings.Join(c.Holdovers, ", "))
	}

	var actions []TradeAction
	remaining := amount
	sellable := M(0, amount.Currency())
	for _, symbol := range c.sellCandidates(g.req.Taxable) {
		h, ok := lookup(g.req.Holdings, symbol)
		if !ok || !h.MarketValue.IsPositive() {
			continue
		}
		if !h.Price.IsPositive() {
			g.report(MissingPrice, c, symbol, "cannot sell %s for %q: no price available", symbol, c.Category)
			continue
		}
		sellable = sellable.Add(h.MarketValue)

		a := g.trade(Sell, symbol, h.Price, remaining.Min(h.MarketValue))
		if a.Shares.IsZero() && g.req.Rounding == WholeShares {
			// less than a share to sell on this symbol
			continue
		}
		actions = append(actions, a)
		remaining = remaining.Sub(a.Amount)
		if !remaining.IsPositive() {
			break
		}
	}
	if actions == nil {
		actions = []TradeAction{}
	}
	if !remaining.IsPositive() {
		return actions, M(0, amount.Currency())
	}
	if sellable.LessThan(amount) {
		g.report(Shortfall, c, "", "only %s of %s could be sold for %q", amount.Sub(remaining), amount, c.Category)
	}
	return actions, remaining
}

// trade builds an action worth at most amount, following the rounding policy.
func (g *generator) trade(kind ActionKind, symbol string, price, amount Money) TradeAction {
	a := TradeAction{Symbol: symbol, Kind: kind, Price: price}
	shares := amount.DivPrice(price)
	if g.req.Rounding == WholeShares {
		a.Shares = shares.Floor()
		a.Amount = price.Mul(a.Shares)
		return a
	}
	a.Shares = shares
	a.Amount = amount
	return a
}
