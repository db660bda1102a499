package rebalance

import "fmt"

// ConfigError reports an invalid target allocation table. It is fatal: no
// instruction is computed when the table is invalid.
type ConfigError struct {
	Sum    float64 // sum of the desired allocations
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return "invalid targets: " + e.Reason
	}
	return fmt.Sprintf("allocation does not sum to 1 (got %.6f)", e.Sum)
}

// InputError reports an unusable account snapshot or withdrawal amount.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

// LookupError reports a symbol that could not be priced. It is contained to
// the asset class it belongs to.
type LookupError struct {
	Category string
	Symbol   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no price for %s in %s", e.Symbol, e.Category)
}
