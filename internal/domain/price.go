package domain

import "math"

// UndefinedPrice is the sentinel for an instrument whose price is not
// currently known. It compares unequal to everything, so all price
// handling goes through ValidPrice rather than direct comparison.
func UndefinedPrice() float64 {
	return math.NaN()
}

// ValidPrice reports whether p is a usable reference price: finite and
// strictly positive. NaN, infinities, zero, and negative values all count
// as undefined and must be substituted with a safe default by the caller.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}
