package rebalance

// ResultingValue returns the value of a class after applying actions:
// current + sum of buys - sum of sells.
func ResultingValue(current Money, actions []TradeAction) Money {
	v := current
	for _, a := range actions {
		switch a.Kind {
		case Buy:
			v = v.Add(a.Amount)
		case Sell:
			v = v.Sub(a.Amount)
		}
	}
	return v
}

// Summarize sets the resulting value and allocation of ci from its current
// value and actions. The allocation is relative to desiredAccountValue, and
// reported as 0 when it is zero.
func Summarize(ci *ClassInstruction, desiredAccountValue Money) {
	ci.ResultingValue = ResultingValue(ci.CurrentValue, ci.Actions)
	ci.ResultingAllocation = ci.ResultingValue.Ratio(desiredAccountValue)
}
