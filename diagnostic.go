package rebalance

import "fmt"

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind int

const (
	// TaxLotReview: a sell is planned in a taxable account for a class with holdovers.
	TaxLotReview DiagnosticKind = iota
	// SuppressedSell: sells of a taxable account were skipped because no withdrawal was requested.
	SuppressedSell
	// MissingPrice: a symbol could not be priced, see LookupError.
	MissingPrice
	// Shortfall: the class did not hold enough value to sell the requested amount.
	Shortfall
)

func (k DiagnosticKind) String() string {
	switch k {
	case TaxLotReview:
		return "tax-lot-review"
	case SuppressedSell:
		return "suppressed-sell"
	case MissingPrice:
		return "missing-price"
	case Shortfall:
		return "shortfall"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic is an advisory produced while computing a plan. Diagnostics
// never change the computed actions.
type Diagnostic struct {
	Kind     DiagnosticKind
	Category string
	Symbol   string
	Message  string
	// Err is set for MissingPrice diagnostics.
	Err error
}

func (d Diagnostic) String() string { return d.Message }

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", d.Kind.String())
	w.Append("category", d.Category)
	w.Optional("symbol", d.Symbol)
	w.Append("message", d.Message)
	return w.MarshalJSON()
}
