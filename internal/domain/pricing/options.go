package pricing

import (
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/pkg/logger"
)

// Option applies a configuration option to the Allocator.
type Option func(*Allocator)

// WithMode selects band or interpolation allocation. Unknown modes are ignored.
func WithMode(mode Mode) Option {
	return func(a *Allocator) {
		switch mode {
		case ModeBands, ModeInterpolate:
			a.mode = mode
		}
	}
}

// WithExponent sets the curve exponent used by ModeInterpolate.
func WithExponent(exp float64) Option {
	return func(a *Allocator) {
		if exp > 0 {
			a.exponent = exp
		}
	}
}

// WithMinPrice sets the price given to records without a ladder.
func WithMinPrice(p int) Option {
	return func(a *Allocator) {
		if p > 0 {
			a.minPrice = p
		}
	}
}

// WithLadders replaces the budget ladders, keyed by role name.
func WithLadders(ladders map[string][]int) Option {
	return func(a *Allocator) {
		if len(ladders) == 0 {
			return
		}
		a.ladders = make(map[model.Role]Ladder, len(ladders))
		for k, v := range ladders {
			if r := model.ParseRole(k); r != model.RoleUnknown && len(v) > 0 {
				a.ladders[r] = append(Ladder(nil), v...)
			}
		}
	}
}

// WithBands replaces the cumulative percentile bands, keyed by role name.
func WithBands(bands map[string][]float64) Option {
	return func(a *Allocator) {
		if len(bands) == 0 {
			return
		}
		a.bands = make(map[model.Role][]float64, len(bands))
		for k, v := range bands {
			if r := model.ParseRole(k); r != model.RoleUnknown && len(v) > 0 {
				a.bands[r] = append([]float64(nil), v...)
			}
		}
	}
}

// WithLogger sets the logger used for allocation diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.log = l
		}
	}
}
