package rebalance

import "github.com/google/go-cmp/cmp"

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// exact compares Money and Quantity by value.
var exact = cmp.Options{
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
}

// holding is a helper for test to create a USD holding.
func holding(symbol string, price, marketValue float64) Holding {
	return Holding{Symbol: symbol, Price: USD(price), MarketValue: USD(marketValue)}
}

// kinds returns the kinds of diagnostics, in order.
func kinds(diags []Diagnostic) []DiagnosticKind {
	var k []DiagnosticKind
	for _, d := range diags {
		k = append(k, d.Kind)
	}
	return k
}
