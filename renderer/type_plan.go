package renderer

import (
	"cmp"
	"slices"

	"github.com/etnz/rebalance"
)

// Plan is the presentation view of a rebalance.Plan.
// Numbers keep their exact types so that they already carry their renderers.
type Plan struct {
	AccountValue        rebalance.Money `json:"accountValue"`
	Withdrawal          rebalance.Money `json:"withdrawal"`
	DesiredAccountValue rebalance.Money `json:"desiredAccountValue"`
	Taxable             bool            `json:"taxable"`
	Rounding            string          `json:"rounding"`
	// Rows has one row per action, sorted by symbol.
	Rows  []PlanRow `json:"rows"`
	Notes []string  `json:"notes"`
}

// PlanRow is a line of the instruction table.
type PlanRow struct {
	Category  string            `json:"category"`
	Symbol    string            `json:"symbol"`
	Action    string            `json:"action"`
	Shares    string            `json:"shares"`
	Amount    string            `json:"amount"`
	Holdings  string            `json:"holdings"`
	Current   rebalance.Percent `json:"current"`
	Desired   rebalance.Percent `json:"desired"`
	Resulting rebalance.Percent `json:"resulting"`
}

const (
	buyLabel      = "🟢 BUY"
	sellLabel     = "🔴 SELL"
	noActionLabel = "✋ No action"
	notApplicable = "(n/a)"
)

// NewPlan creates the view of p. t provides the symbols of each class.
func NewPlan(p *rebalance.Plan, t *rebalance.Targets) *Plan {
	v := &Plan{
		AccountValue:        p.AccountValue,
		Withdrawal:          p.Withdrawal,
		DesiredAccountValue: p.DesiredAccountValue,
		Taxable:             p.Taxable,
		Rounding:            p.Rounding.String(),
		Rows:                make([]PlanRow, 0, len(p.Instructions)),
		Notes:               make([]string, 0, len(p.Diagnostics)),
	}

	for _, ci := range p.Instructions {
		base := PlanRow{
			Category:  ci.Category,
			Current:   ci.CurrentAllocation,
			Desired:   ci.DesiredAllocation,
			Resulting: ci.ResultingAllocation,
		}
		if c, ok := t.Class(ci.Category); ok {
			base.Holdings = c.Label()
		}

		if len(ci.Actions) == 0 {
			row := base
			row.Symbol, row.Action, row.Shares, row.Amount = notApplicable, noActionLabel, "", ""
			v.Rows = append(v.Rows, row)
			continue
		}
		for _, a := range ci.Actions {
			row := base
			row.Symbol = a.Symbol
			row.Action = buyLabel
			if a.Kind == rebalance.Sell {
				row.Action = sellLabel
			}
			if a.Unpriced {
				row.Shares, row.Amount = "?", "no price"
			} else {
				row.Shares, row.Amount = a.Shares.Fixed(), a.Amount.String()
			}
			v.Rows = append(v.Rows, row)
		}
	}
	slices.SortStableFunc(v.Rows, func(a, b PlanRow) int { return cmp.Compare(a.Symbol, b.Symbol) })

	for _, d := range p.Diagnostics {
		v.Notes = append(v.Notes, d.Message)
	}
	return v
}

// AccountType returns a readable account type.
func (p *Plan) AccountType() string {
	if p.Taxable {
		return "taxable"
	}
	return "tax-advantaged"
}
