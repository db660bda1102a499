package rebalance

import (
	"iter"
	"math"
	"slices"
	"strings"
)

// AllocationTolerance is the maximum distance to 1 accepted for the sum of
// desired allocations.
const AllocationTolerance = 1e-4

// AssetClass is one row of the target allocation table.
type AssetClass struct {
	// Category names the class, e.g. "US_STOCKS".
	Category string `yaml:"category" json:"category"`
	// Allocation is the desired fraction of the account value, in (0,1].
	Allocation float64 `yaml:"allocation" json:"allocation"`
	// Primary is the symbol bought or sold to move the allocation.
	Primary string `yaml:"primary" json:"primary"`
	// Holdovers are legacy symbols of the same class, sold before the primary in taxable accounts.
	Holdovers []string `yaml:"holdovers,omitempty" json:"holdovers,omitempty"`
}

// Symbols returns the primary symbol followed by the holdovers.
func (c AssetClass) Symbols() []string {
	return append([]string{c.Primary}, c.Holdovers...)
}

// Owns reports whether symbol belongs to this asset class.
func (c AssetClass) Owns(symbol string) bool {
	return symbol == c.Primary || slices.Contains(c.Holdovers, symbol)
}

// Label returns "VTI (VV, SCHA)" style description of the class symbols.
func (c AssetClass) Label() string {
	if len(c.Holdovers) == 0 {
		return c.Primary
	}
	return c.Primary + " (" + strings.Join(c.Holdovers, ", ") + ")"
}

// sellCandidates returns the symbols to liquidate, in order.
// Taxable accounts sell legacy holdovers before touching the primary.
func (c AssetClass) sellCandidates(taxable bool) []string {
	if !taxable {
		return []string{c.Primary}
	}
	return append(slices.Clone(c.Holdovers), c.Primary)
}

// Targets is the target allocation table. It is immutable once created.
type Targets struct {
	classes []AssetClass
}

// NewTargets creates a table from classes, in declaration order.
func NewTargets(classes ...AssetClass) *Targets {
	t := &Targets{classes: make([]AssetClass, 0, len(classes))}
	for _, c := range classes {
		c.Holdovers = slices.Clone(c.Holdovers)
		t.classes = append(t.classes, c)
	}
	return t
}

// DefaultTargets returns the built-in allocation table.
func DefaultTargets() *Targets {
	return NewTargets(
		AssetClass{Category: "US_STOCKS", Allocation: 0.58, Primary: "VTI", Holdovers: []string{"VV", "SCHA"}},
		AssetClass{Category: "INTL_STOCKS", Allocation: 0.25, Primary: "IXUS", Holdovers: []string{"SPDW"}},
		AssetClass{Category: "REAL_ESTATE", Allocation: 0.08, Primary: "VNQ"},
		AssetClass{Category: "US_BONDS", Allocation: 0.07, Primary: "BND"},
		AssetClass{Category: "INTL_BONDS", Allocation: 0.02, Primary: "BNDX"},
	)
}

// Len returns the number of asset classes.
func (t *Targets) Len() int { return len(t.classes) }

// Classes iterates over the asset classes in declaration order.
func (t *Targets) Classes() iter.Seq[AssetClass] {
	return func(yield func(AssetClass) bool) {
		for _, c := range t.classes {
			c.Holdovers = slices.Clone(c.Holdovers)
			if !yield(c) {
				return
			}
		}
	}
}

// Class returns the asset class named category.
func (t *Targets) Class(category string) (AssetClass, bool) {
	for c := range t.Classes() {
		if c.Category == category {
			return c, true
		}
	}
	return AssetClass{}, false
}

// Sum returns the sum of desired allocations.
func (t *Targets) Sum() float64 {
	var sum float64
	for _, c := range t.classes {
		sum += c.Allocation
	}
	return sum
}

// Validate checks that the desired allocations sum to 1 within
// AllocationTolerance. It returns a *ConfigError otherwise.
func Validate(t *Targets) error {
	sum := t.Sum()
	if math.IsNaN(sum) || math.Abs(sum-1) > AllocationTolerance {
		return &ConfigError{Sum: sum}
	}
	return nil
}
