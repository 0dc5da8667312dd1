// Package pricing implements the quoting calculation engines.
//
// Two engines exist, one per product domain: window treatments (curtains and
// blinds) and tile installation. Both are pure functions over an immutable
// catalog snapshot and a quote-state snapshot; they never perform I/O, never
// panic on malformed input, and always return a complete breakdown. The two
// engines share only the numeric helpers in this file because their GST and
// discount orderings genuinely differ and are both contractual.
package pricing

// PercentOf returns pct percent of v.
func PercentOf(v, pct float64) float64 {
	return v * pct / 100
}

// CapAt limits v to at most limit. Used to stop a fixed discount exceeding
// the amount it is applied to.
func CapAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

// FloorAt raises v to at least floor. Used for minimum billable quantities.
func FloorAt(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}

// SumBy sums f over xs.
func SumBy[T any](xs []T, f func(T) float64) float64 {
	var total float64
	for _, x := range xs {
		total += f(x)
	}
	return total
}
