package service

import (
	"github.com/okian/fantaprice/internal/adapters/source"
	"github.com/okian/fantaprice/internal/adapters/tabular"
	"github.com/okian/fantaprice/internal/config"
	"github.com/okian/fantaprice/internal/domain/canon"
	"github.com/okian/fantaprice/internal/domain/matching"
	"github.com/okian/fantaprice/internal/domain/pricing"
)

// OptionsFromConfig translates a loaded Config into service options.
func OptionsFromConfig(cfg *config.Config) ([]Option, error) {
	format, err := tabular.ParseFormat(cfg.Sources.Format)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithSources(cfg.Sources.Fpedia, cfg.Sources.Fstats),
		WithFormat(format),
		WithOutputDir(cfg.OutputDir),
		WithProfiles(cfg.Scoring.Fpedia, cfg.Scoring.Fstats),
		WithLoaderOptions(
			source.WithWorkers(cfg.Sources.FetchWorkers),
			source.WithTimeout(cfg.Sources.Timeout),
			source.WithUserAgent(cfg.Sources.UserAgent),
		),
		WithPricingOptions(
			pricing.WithMode(pricing.Mode(cfg.Pricing.Mode)),
			pricing.WithExponent(cfg.Pricing.Exponent),
			pricing.WithMinPrice(cfg.Pricing.MinPrice),
			pricing.WithLadders(cfg.Pricing.Ladders),
			pricing.WithBands(cfg.Pricing.Bands),
		),
		WithCanonOptions(
			canon.WithStopwords(cfg.Names.Stopwords),
			canon.WithAliases(cfg.Names.Aliases),
			canon.WithTeamAliases(cfg.Names.TeamAliases),
		),
		WithMatchingOptions(
			matching.WithTeamWeight(cfg.Matching.TeamWeight),
			matching.WithThresholds(cfg.Matching.HighThreshold, cfg.Matching.LowThreshold),
			matching.WithForcedScore(cfg.Matching.ForcedScore),
			matching.WithFuzzyWeight(cfg.Matching.FuzzyWeight),
			matching.WithLengthBonus(cfg.Matching.LengthDivisor, cfg.Matching.LengthBonusCap),
		),
	}, nil
}
