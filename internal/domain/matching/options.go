package matching

import (
	"github.com/okian/fantaprice/pkg/logger"
)

// Default matcher configuration constants.
const (
	defaultTeamWeight     = 0.3
	defaultHighThreshold  = 0.6
	defaultLowThreshold   = 0.1
	defaultForcedScore    = 0.05
	defaultFuzzyWeight    = 0.8
	defaultLengthDivisor  = 15
	defaultLengthBonusCap = 0.5
)

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithTeamWeight sets how much team similarity adds to a candidate score.
func WithTeamWeight(w float64) Option {
	return func(m *Matcher) {
		if w >= 0 {
			m.teamWeight = w
		}
	}
}

// WithThresholds sets the acceptance thresholds of the high-quality and aggressive phases.
func WithThresholds(high, low float64) Option {
	return func(m *Matcher) {
		if high > 0 && low > 0 && low <= high {
			m.highThreshold = high
			m.lowThreshold = low
		}
	}
}

// WithForcedScore sets the sentinel score stored on forced pairs.
func WithForcedScore(s float64) Option {
	return func(m *Matcher) {
		if s >= 0 && s <= 1 {
			m.forcedScore = s
		}
	}
}

// WithFuzzyWeight scales the edit-distance fallback of the aggressive phase.
func WithFuzzyWeight(w float64) Option {
	return func(m *Matcher) {
		if w >= 0 {
			m.fuzzyWeight = w
		}
	}
}

// WithLengthBonus sets the divisor and cap of the longest-shared-variant bonus.
func WithLengthBonus(divisor, limit float64) Option {
	return func(m *Matcher) {
		if divisor > 0 && limit >= 0 {
			m.lengthDivisor = divisor
			m.lengthBonusCap = limit
		}
	}
}

// WithLogger sets the logger used for coverage diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.log = l
		}
	}
}
