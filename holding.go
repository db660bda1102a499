package rebalance

// Holding is a position of the account snapshot.
type Holding struct {
	Symbol      string
	Price       Money // per share
	MarketValue Money // a value <= 0 means nothing to sell
}

// Snapshot is the state of the brokerage account at the time of the run.
type Snapshot struct {
	AccountValue Money
	Holdings     []Holding
	Taxable      bool
	// AccountType is the raw account description, when known.
	AccountType string
}

// Currency returns the currency of the account value.
func (s *Snapshot) Currency() string { return s.AccountValue.Currency() }

// Lookup returns the first holding for symbol.
func (s *Snapshot) Lookup(symbol string) (Holding, bool) {
	return lookup(s.Holdings, symbol)
}

// MarketValue returns the sum of all holdings market values.
func (s *Snapshot) MarketValue() Money {
	total := M(0, s.Currency())
	for _, h := range s.Holdings {
		total = total.Add(h.MarketValue)
	}
	return total
}

// lookup returns the first holding matching symbol; duplicates are ignored.
func lookup(holdings []Holding, symbol string) (Holding, bool) {
	for _, h := range holdings {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return Holding{}, false
}

// Aggregate sums the market value of holdings per asset class, using the
// primary and holdover symbols of each class. Classes without holdings are
// present with a zero value. Holdings that belong to no class are ignored.
func Aggregate(holdings []Holding, t *Targets) map[string]Money {
	totals := make(map[string]Money, t.Len())
	for c := range t.Classes() {
		var sum Money
		for _, h := range holdings {
			if c.Owns(h.Symbol) {
				sum = sum.Add(h.MarketValue)
			}
		}
		totals[c.Category] = sum
	}
	return totals
}
