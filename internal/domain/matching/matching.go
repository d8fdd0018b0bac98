// Package matching pairs player records across the two sources.
package matching

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/okian/fantaprice/internal/domain/canon"
	"github.com/okian/fantaprice/internal/domain/claim"
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

// Matcher runs the HIGH_QUALITY, AGGRESSIVE and FORCED phases.
type Matcher struct {
	canon          *canon.Canonicalizer
	teamWeight     float64
	highThreshold  float64
	lowThreshold   float64
	forcedScore    float64
	fuzzyWeight    float64
	lengthDivisor  float64
	lengthBonusCap float64
	log            logger.Logger
}

// New creates a Matcher using c for name and team normalization.
func New(c *canon.Canonicalizer, opts ...Option) *Matcher {
	if c == nil {
		c = canon.New()
	}
	m := &Matcher{
		canon:          c,
		teamWeight:     defaultTeamWeight,
		highThreshold:  defaultHighThreshold,
		lowThreshold:   defaultLowThreshold,
		forcedScore:    defaultForcedScore,
		fuzzyWeight:    defaultFuzzyWeight,
		lengthDivisor:  defaultLengthDivisor,
		lengthBonusCap: defaultLengthBonusCap,
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of one matching run.
type Result struct {
	// Pairs are ordered by the smaller dataset's index.
	Pairs []model.MatchPair

	// UnmatchedA and UnmatchedB hold FPEDIA and FSTATS indexes left without a pair.
	UnmatchedA []int
	UnmatchedB []int

	Smaller  model.Source
	Coverage float64
}

// PhaseCounts tallies pairs by phase.
func (r Result) PhaseCounts() map[model.Phase]int {
	out := make(map[model.Phase]int, 3)
	for _, p := range r.Pairs {
		out[p.Phase]++
	}
	return out
}

// entry is a record prepared for comparison.
type entry struct {
	name     string
	team     string
	variants canon.Set
}

func (m *Matcher) prepare(t *model.Table) []entry {
	out := make([]entry, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := t.Records[i]
		out[i] = entry{
			name:     m.canon.Canonicalize(r.Name),
			team:     m.canon.ExtractTeam(r.Team),
			variants: m.canon.Variants(r.Name),
		}
	}
	return out
}

// Match pairs every record of the smaller table with a distinct record of the
// larger one. FSTATS is the smaller side when both have the same size.
// Candidates are consumed greedily in the smaller table's order; a later record
// never steals a candidate claimed earlier.
func (m *Matcher) Match(ctx context.Context, fpedia, fstats *model.Table) Result {
	smallIsB := fstats.Len() <= fpedia.Len()
	small, large := fstats, fpedia
	res := Result{Smaller: model.SourceFstats}
	if !smallIsB {
		small, large = fpedia, fstats
		res.Smaller = model.SourceFpedia
	}

	se := m.prepare(small)
	le := m.prepare(large)
	reg := claim.NewInMemoryRegistry(claim.WithCapacity(len(le)))
	matched := make([]bool, len(se))

	pair := func(si, li int, score float64, phase model.Phase) {
		p := model.MatchPair{Score: clamp01(score), Phase: phase}
		if smallIsB {
			p.SourceAIndex, p.SourceBIndex = li, si
		} else {
			p.SourceAIndex, p.SourceBIndex = si, li
		}
		res.Pairs = append(res.Pairs, p)
		matched[si] = true
		metrics.RecordMatch(string(phase))
	}

	phases := []struct {
		phase     model.Phase
		threshold float64
		fuzzy     bool
	}{
		{model.PhaseHighQuality, m.highThreshold, false},
		{model.PhaseAggressive, m.lowThreshold, true},
	}
	for _, ph := range phases {
		for si := range se {
			if matched[si] {
				continue
			}
			best, bestScore := -1, 0.0
			for li := range le {
				if reg.Claimed(li) {
					continue
				}
				if s := m.similarity(&se[si], &le[li], ph.fuzzy); s > bestScore {
					best, bestScore = li, s
				}
			}
			if best >= 0 && bestScore >= ph.threshold && reg.Claim(ctx, best) {
				pair(si, best, bestScore, ph.phase)
			}
		}
	}

	for si := range se {
		if matched[si] {
			continue
		}
		if reg.Size() >= int64(len(le)) {
			break
		}
		free := reg.Unclaimed(len(le))
		if reg.Claim(ctx, free[0]) {
			pair(si, free[0], m.forcedScore, model.PhaseForced)
		}
	}

	sort.SliceStable(res.Pairs, func(i, j int) bool {
		return smallIndex(res.Pairs[i], smallIsB) < smallIndex(res.Pairs[j], smallIsB)
	})

	var smallLeft []int
	for si, ok := range matched {
		if !ok {
			smallLeft = append(smallLeft, si)
		}
	}
	largeLeft := reg.Unclaimed(len(le))
	if smallIsB {
		res.UnmatchedA, res.UnmatchedB = largeLeft, smallLeft
	} else {
		res.UnmatchedA, res.UnmatchedB = smallLeft, largeLeft
	}

	res.Coverage = 1
	if len(se) > 0 {
		res.Coverage = float64(len(se)-len(smallLeft)) / float64(len(se))
	}
	metrics.UpdateCoverage(res.Coverage)
	metrics.UpdateUnmatched(string(model.SourceFpedia), len(res.UnmatchedA))
	metrics.UpdateUnmatched(string(model.SourceFstats), len(res.UnmatchedB))

	counts := res.PhaseCounts()
	fields := []logger.Field{
		logger.String("smaller", string(res.Smaller)),
		logger.Int("pairs", len(res.Pairs)),
		logger.Int("high_quality", counts[model.PhaseHighQuality]),
		logger.Int("aggressive", counts[model.PhaseAggressive]),
		logger.Int("forced", counts[model.PhaseForced]),
		logger.Float64("coverage", res.Coverage),
		logger.Int("claimed", int(reg.Size())),
	}
	if len(smallLeft) > 0 {
		metrics.RecordCoverageViolation()
		m.log.Error(ctx, "coverage violation: larger dataset exhausted",
			append(fields, logger.Int("unmatched", len(smallLeft)))...)
	} else {
		m.log.Info(ctx, "matching complete", fields...)
	}
	return res
}

// Score returns the similarity of two raw records as the aggressive phase sees it.
func (m *Matcher) Score(a, b *model.PlayerRecord) float64 {
	ea := entry{name: m.canon.Canonicalize(a.Name), team: m.canon.ExtractTeam(a.Team), variants: m.canon.Variants(a.Name)}
	eb := entry{name: m.canon.Canonicalize(b.Name), team: m.canon.ExtractTeam(b.Team), variants: m.canon.Variants(b.Name)}
	return m.similarity(&ea, &eb, true)
}

func (m *Matcher) similarity(a, b *entry, fuzzy bool) float64 {
	common, longest := 0, 0
	for v := range a.variants {
		if _, ok := b.variants[v]; ok {
			common++
			longest = max(longest, utf8.RuneCountInString(v))
		}
	}

	var score float64
	switch {
	case common > 0:
		union := len(a.variants) + len(b.variants) - common
		score = float64(common)/float64(union) + math.Min(float64(longest)/m.lengthDivisor, m.lengthBonusCap)
	case fuzzy:
		score = ratio(a.name, b.name) * m.fuzzyWeight
	}
	return score + m.canon.TeamSimilarity(a.team, b.team)*m.teamWeight
}

// ratio is 1 - editDistance/maxLen over runes; empty strings score 0.
func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(max(la, lb))
}

func smallIndex(p model.MatchPair, smallIsB bool) int {
	if smallIsB {
		return p.SourceBIndex
	}
	return p.SourceAIndex
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
