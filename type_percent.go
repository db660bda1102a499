package rebalance

import "fmt"

// Percent is a ratio expressed in percent units: 58 means 58%.
type Percent float64

// FromFraction converts a fraction (0.58) into a Percent (58%).
func FromFraction(f float64) Percent { return Percent(f * 100) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
