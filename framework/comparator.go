package framework

// DefaultTolerance is the largest difference between two finite numbers that still compares as
// equal. It matches the tolerance of the Mozilla test shell.
const DefaultTolerance = 1e-10

// Comparator decides whether an actual value matches an expected one.
//
// Values of different kinds never match; there is no coercion between strings and numbers. NaN
// matches NaN, and each infinity matches only itself. Object references match by identity and
// structured data matches structurally.
type Comparator struct {
	Tolerance float64
}

func DefaultComparator() Comparator {
	return Comparator{Tolerance: DefaultTolerance}
}

func (c Comparator) Compare(expected, actual Value) bool {
	tolerance := c.Tolerance
	if tolerance < 0 {
		tolerance = 0
	}
	return expected.Equal(actual, tolerance)
}
