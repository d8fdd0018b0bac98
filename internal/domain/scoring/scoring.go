// Package scoring converts a source table into per-player composite scores.
package scoring

import (
	"context"
	"math"
	"strings"

	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/internal/domain/normalize"
	"github.com/okian/fantaprice/internal/domain/reliability"
	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.log = l
		}
	}
}

// Scorer evaluates records of one source against its Profile.
type Scorer struct {
	profile Profile
	log     logger.Logger
}

// New creates a scorer for profile.
func New(profile Profile, opts ...Option) *Scorer {
	s := &Scorer{profile: profile, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the profile the scorer was built with.
func (s *Scorer) Profile() Profile { return s.profile }

// Breakdown lists the contribution of every term for one record.
type Breakdown struct {
	Reliability float64
	Base        float64
	Damped      float64
	Usage       float64
	Offense     float64
	Index       float64
	Technical   float64
	Tags        float64
	Bonus       float64
	Penalty     float64
	Multiplier  float64
	Ceiling     float64
	Total       float64
	Potential   float64
}

// Score evaluates every record of t. The result is aligned with t.Records.
// An empty table yields nil.
func (s *Scorer) Score(ctx context.Context, t *model.Table) []model.Valuation {
	if t.Len() == 0 {
		s.log.Warn(ctx, "empty table, scoring skipped", logger.String("source", string(s.profile.Source)))
		metrics.RecordScoringSkipped(string(s.profile.Source))
		return nil
	}

	caps := s.Bind(t.Columns)
	missing := caps.Missing(s.profile.Columns)
	if len(missing) > 0 {
		s.log.Debug(ctx, "statistics unavailable", logger.String("source", string(s.profile.Source)),
			logger.Any("stats", missing))
	}

	out := make([]model.Valuation, len(t.Records))
	var maxPotential float64
	for i, r := range t.Records {
		b := s.Evaluate(caps, r)
		out[i] = model.Valuation{Reliability: b.Reliability, Score: b.Total, Potential: b.Potential}
		maxPotential = math.Max(maxPotential, b.Potential)
		metrics.RecordScored(string(s.profile.Source), r.Role.String())
	}

	if s.profile.Potential.Rescale && maxPotential > 0 {
		for i := range out {
			out[i].Potential = round2(out[i].Potential / maxPotential * 100)
		}
	}

	s.log.Info(ctx, "table scored", logger.String("source", string(s.profile.Source)),
		logger.Int("records", len(out)))
	return out
}

// Evaluate computes all terms for a single record.
func (s *Scorer) Evaluate(caps Capabilities, r *model.PlayerRecord) Breakdown {
	p := s.profile
	w := p.Weights
	role := r.Role

	avg, hasAvg := caps.Float(r, StatAverage)
	apps, _ := caps.Float(r, StatAppearances)
	apps = math.Max(apps, 0)

	var b Breakdown
	b.Reliability = reliability.Factor(apps)

	if hasAvg {
		b.Base = normalize.Affine(avg, p.AverageLow, p.AverageHigh) * w.Base.For(role)
		if p.AverageScale > 0 {
			b.Damped = normalize.Unit(avg/p.AverageScale) * b.Reliability * w.Reliability.For(role)
		}
	}

	b.Usage = s.usage(caps, r, apps) * w.Usage.For(role)
	b.Offense = s.offense(caps, r, apps) * w.Offense.For(role)

	if idx, ok := caps.Float(r, StatIndex); ok && p.IndexSpan > 0 {
		b.Index = normalize.Unit((idx-p.IndexOffset)/p.IndexSpan) * w.Index.For(role)
	}

	if tech := caps.Technical(r); len(tech) > 0 {
		b.Technical = normalize.Unit(normalize.Mean(tech)/100) * w.Technical.For(role)
	}

	tags := caps.Tags(r)
	if len(tags) > 0 {
		b.Tags = normalize.Affine(sumTags(tags, p.TagPoints), p.TagLow, p.TagHigh) * w.Tags.For(role)
	}

	b.Bonus = s.bonus(caps, r)
	b.Penalty = s.penalty(caps, r, apps)

	raw := b.Base + b.Damped + b.Usage + b.Offense + b.Index + b.Technical + b.Tags + b.Bonus - b.Penalty
	b.Multiplier = p.Multiplier.For(role)
	b.Ceiling = p.Ceiling.For(role)
	b.Total = round2(normalize.Clip(raw*b.Multiplier, 0, b.Ceiling))

	b.Potential = s.potential(caps, r, tags)
	return b
}

func (s *Scorer) usage(caps Capabilities, r *model.PlayerRecord, apps float64) float64 {
	p := s.profile
	u := p.AppearanceSteps.Eval(apps, 0)

	start, ok := caps.Float(r, StatStartShare)
	if !ok {
		return u
	}
	if start > 1 {
		start /= 100
	}
	share := normalize.Unit(p.StartShare)
	return u*(1-share) + p.StartSteps.Eval(start, p.StartFallback)*share
}

func (s *Scorer) offense(caps Capabilities, r *model.PlayerRecord, apps float64) float64 {
	targets := s.profile.OtherTargets
	if r.Role == model.RoleForward {
		targets = s.profile.ForwardTargets
	}

	var total float64
	rate := func(stat Stat, t RateTarget) {
		if v, ok := caps.Float(r, stat); ok {
			total += normalize.Ratio(normalize.PerMatch(v, apps), t.Target, t.Cap) * t.Weight
		}
	}
	rate(StatGoals, targets.Goals)
	rate(StatExpectedGoals, targets.ExpectedGoals)
	rate(StatAssists, targets.Assists)
	rate(StatExpectedAssists, targets.ExpectedAssists)
	return total
}

func (s *Scorer) bonus(caps Capabilities, r *model.PlayerRecord) float64 {
	w := s.profile.Weights
	var total float64
	if v, ok := caps.Float(r, StatInjuryResistance); ok {
		total += normalize.Unit((v-50)/50) * w.InjuryResistance
	}
	if v, ok := caps.Float(r, StatInvestment); ok {
		total += normalize.Unit((v-50)/50) * w.Investment
	}
	if t := caps.Raw(r, StatTrend); t != "" && strings.EqualFold(strings.TrimSpace(t), s.profile.TrendUp) {
		total += w.Trend
	}
	return total
}

func (s *Scorer) penalty(caps Capabilities, r *model.PlayerRecord, apps float64) float64 {
	p := s.profile.Penalty
	var total float64
	if y, ok := caps.Float(r, StatYellowCards); ok && p.YellowRateTarget > 0 {
		total += normalize.PerMatch(y, apps) / p.YellowRateTarget * p.YellowPoints
	}
	if red, ok := caps.Float(r, StatRedCards); ok {
		total += red * p.RedPoints
	}
	if caps.Bool(r, StatInjured) {
		total += p.InjuredPoints
	}
	if caps.Bool(r, StatBanned) {
		total += p.BannedPoints
	}
	if caps.Bool(r, StatNewSigning) {
		total += p.NewSigningPoints
	}
	return normalize.Clip(total, 0, p.Cap) * p.Fraction
}

func (s *Scorer) potential(caps Capabilities, r *model.PlayerRecord, tags []string) float64 {
	p := s.profile.Potential
	idx, _ := caps.Float(r, StatIndex)
	v := idx + p.TagWeight*sumTags(tags, p.TagPoints)
	if p.ExpectedWeight != 0 {
		xg, _ := caps.Float(r, StatExpectedGoals)
		xa, _ := caps.Float(r, StatExpectedAssists)
		v += p.ExpectedWeight * (xg + xa)
	}
	return round2(v)
}

func sumTags(tags []string, points map[string]float64) float64 {
	var sum float64
	for _, t := range tags {
		sum += points[t]
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
