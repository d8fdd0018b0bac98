// Package normalize turns raw, untyped player statistics into bounded factors.
package normalize

import (
	"math"
	"sort"
)

// Clip bounds v to [lo, hi]. NaN collapses to lo.
func Clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Unit clips v to [0,1].
func Unit(v float64) float64 { return Clip(v, 0, 1) }

// Affine maps v linearly so that low -> 0 and high -> 1, then clips to [0,1].
// A degenerate range returns 0.
func Affine(v, low, high float64) float64 {
	if high <= low {
		return 0
	}
	return Unit((v - low) / (high - low))
}

// PerMatch divides total by appearances with the denominator floored at 1.
func PerMatch(total, appearances float64) float64 {
	return total / math.Max(appearances, 1)
}

// Ratio returns v/target capped at limit. Non-positive targets yield 0.
func Ratio(v, target, limit float64) float64 {
	if target <= 0 {
		return 0
	}
	return Clip(v/target, 0, limit)
}

// Mean averages vs; an empty slice has mean 0.
func Mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Step is one breakpoint of a piecewise-constant schedule.
type Step struct {
	Min   float64 `koanf:"min"`
	Value float64 `koanf:"value"`
}

// Steps is a piecewise-constant schedule. The first step whose Min is <= v wins
// after sorting by descending Min.
type Steps []Step

// Eval returns the value of the highest breakpoint not above v, or fallback.
func (s Steps) Eval(v, fallback float64) float64 {
	sorted := make(Steps, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min > sorted[j].Min })
	for _, st := range sorted {
		if v >= st.Min {
			return st.Value
		}
	}
	return fallback
}
