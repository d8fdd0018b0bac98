// Package reliability maps appearance counts to a trust multiplier.
package reliability

// Floor is the factor given to players without appearances.
const Floor = 0.05

// Factor returns the reliability in [0,1] for a number of appearances.
// It is non-decreasing; negative counts are treated as zero.
func Factor(appearances float64) float64 {
	a := appearances
	switch {
	case a >= 25:
		return 1.0
	case a >= 15:
		return 0.7 + 0.3*(a-15)/10
	case a >= 5:
		return 0.3 + 0.4*(a-5)/10
	case a > 0:
		return 0.1 + 0.2*a/5
	default:
		return Floor
	}
}
