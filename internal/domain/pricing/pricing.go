// Package pricing maps composite scores onto per-role budget ladders.
package pricing

import (
	"context"
	"math"
	"sort"

	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

// Mode selects how ranks become prices.
type Mode string

// Allocation modes.
const (
	ModeBands       Mode = "bands"
	ModeInterpolate Mode = "interpolate"
)

const (
	defaultExponent = 1.5
	defaultMinPrice = 1

	// absorbs float error in band widths such as 0.35-0.20
	bandEpsilon = 1e-9
)

// Ladder is an ordered, descending list of price tiers for one role.
type Ladder []int

// Max returns the top tier.
func (l Ladder) Max() int { return l[0] }

// Min returns the floor tier.
func (l Ladder) Min() int { return l[len(l)-1] }

// DefaultLadders returns the stock budget ladders keyed by role name.
func DefaultLadders() map[string][]int {
	return map[string][]int{
		"goalkeeper": {28, 1, 1},
		"defender":   {30, 20, 10, 5, 5, 3, 1, 1},
		"midfielder": {50, 30, 15, 10, 2, 1, 1, 1},
		"forward":    {180, 70, 20, 10, 4, 1},
	}
}

// DefaultBands returns the stock cumulative percentile bands keyed by role name.
func DefaultBands() map[string][]float64 {
	return map[string][]float64{
		"goalkeeper": {0.15, 0.40, 1},
		"defender":   {0.06, 0.15, 0.28, 0.43, 0.60, 0.75, 0.88, 1},
		"midfielder": {0.03, 0.12, 0.25, 0.40, 0.58, 0.72, 0.83, 1},
		"forward":    {0.04, 0.10, 0.20, 0.35, 0.65, 1},
	}
}

// Allocator assigns one price per record.
type Allocator struct {
	ladders  map[model.Role]Ladder
	bands    map[model.Role][]float64
	mode     Mode
	exponent float64
	minPrice int
	log      logger.Logger
}

// New creates an Allocator with the stock ladders and bands.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		mode:     ModeBands,
		exponent: defaultExponent,
		minPrice: defaultMinPrice,
		log:      logger.Nop(),
	}
	WithLadders(DefaultLadders())(a)
	WithBands(DefaultBands())(a)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ladder returns the ladder of role and whether one is configured.
func (a *Allocator) Ladder(r model.Role) (Ladder, bool) {
	l, ok := a.ladders[r]
	return l, ok
}

// Allocate returns prices aligned with records. scores must have the same length.
func (a *Allocator) Allocate(ctx context.Context, source model.Source, records []*model.PlayerRecord, scores []float64) []int {
	prices := make([]int, len(records))
	groups := make(map[model.Role][]int)
	for i, r := range records {
		groups[r.Role] = append(groups[r.Role], i)
	}

	for role, idx := range groups {
		ladder, ok := a.ladders[role]
		if !ok {
			for _, i := range idx {
				prices[i] = a.minPrice
			}
			a.log.Warn(ctx, "no ladder for role, using minimum price",
				logger.String("source", string(source)), logger.String("role", role.String()),
				logger.Int("records", len(idx)))
		} else {
			a.allocateRole(role, ladder, idx, scores, prices)
		}
		for _, i := range idx {
			metrics.RecordPrice(string(source), role.String(), prices[i])
		}
	}
	return prices
}

func (a *Allocator) allocateRole(role model.Role, ladder Ladder, idx []int, scores []float64, prices []int) {
	ranked := append([]int(nil), idx...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreAt(scores, ranked[i]) > scoreAt(scores, ranked[j])
	})

	top := scoreAt(scores, ranked[0])
	if top <= 0 {
		for _, i := range ranked {
			prices[i] = ladder.Min()
		}
		return
	}

	if a.mode == ModeInterpolate {
		span := float64(ladder.Max() - ladder.Min())
		for _, i := range ranked {
			s := math.Max(scoreAt(scores, i), 0) / top
			p := int(math.Round(float64(ladder.Min()) + span*math.Pow(s, a.exponent)))
			prices[i] = clampInt(p, ladder.Min(), ladder.Max())
		}
		floorLast(ladder, ranked, prices)
		return
	}

	bands := a.bands[role]
	if len(bands) != len(ladder) {
		bands = evenBands(len(ladder))
	}
	n := len(ranked)
	pos := 0
	prev := 0.0
	for b, cum := range bands {
		count := n - pos
		if b < len(bands)-1 {
			count = max(1, int(math.Floor(float64(n)*(cum-prev)+bandEpsilon)))
		}
		for k := 0; k < count && pos < n; k++ {
			prices[ranked[pos]] = ladder[b]
			pos++
		}
		prev = cum
	}
	floorLast(ladder, ranked, prices)
}

// floorLast pins the lowest-ranked record of a group of two or more to the floor tier.
func floorLast(ladder Ladder, ranked []int, prices []int) {
	if len(ranked) > 1 {
		prices[ranked[len(ranked)-1]] = ladder.Min()
	}
}

func evenBands(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) / float64(n)
	}
	return out
}

func scoreAt(scores []float64, i int) float64 {
	if i < len(scores) && !math.IsNaN(scores[i]) {
		return scores[i]
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
