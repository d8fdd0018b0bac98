// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
//   - New() returns the stock configuration; Load layers file and env on top.
//   - Every field carries a koanf tag and, where it has bounds, a validate tag.
//   - Errors returned by Load are marked with this package's sentinel errors.
package config

import (
	"time"

	"github.com/okian/fantaprice/internal/domain/canon"
	"github.com/okian/fantaprice/internal/domain/pricing"
	"github.com/okian/fantaprice/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFile, when set, also writes logs to a rotating file.
	LogFile string `koanf:"log_file"`

	Sources Sources `koanf:"sources"`

	// OutputDir receives one CSV per report sheet and the JSON summary.
	OutputDir string `koanf:"output_dir" validate:"required"`

	// MetricsFile, when set, receives a Prometheus textfile at the end of a run.
	MetricsFile string `koanf:"metrics_file"`

	Pricing  Pricing  `koanf:"pricing"`
	Matching Matching `koanf:"matching"`
	Names    Names    `koanf:"names"`
	Scoring  Scoring  `koanf:"scoring"`
}

// Sources locates the two input datasets.
type Sources struct {
	// Fpedia and Fstats are file paths or http(s) URLs.
	Fpedia string `koanf:"fpedia" validate:"required"`
	Fstats string `koanf:"fstats" validate:"required"`

	// Format forces a table format; auto detects it from the extension.
	Format string `koanf:"format" validate:"omitempty,oneof=auto csv html htm json"`

	FetchWorkers int           `koanf:"fetch_workers" validate:"min=1,max=64"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	UserAgent    string        `koanf:"user_agent"`
}

// Pricing configures the price allocator.
type Pricing struct {
	Mode     string  `koanf:"mode" validate:"oneof=bands interpolate"`
	Exponent float64 `koanf:"exponent" validate:"gt=0"`
	MinPrice int     `koanf:"min_price" validate:"min=1"`

	// Ladders and Bands are keyed by role name (goalkeeper, defender, ...).
	Ladders map[string][]int     `koanf:"ladders" validate:"dive,min=1,dive,min=1"`
	Bands   map[string][]float64 `koanf:"bands" validate:"dive,min=1,dive,gt=0,lte=1"`
}

// Matching configures the entity matcher.
type Matching struct {
	TeamWeight     float64 `koanf:"team_weight" validate:"gte=0,lte=1"`
	HighThreshold  float64 `koanf:"high_threshold" validate:"gt=0,lte=1"`
	LowThreshold   float64 `koanf:"low_threshold" validate:"gt=0,ltefield=HighThreshold"`
	ForcedScore    float64 `koanf:"forced_score" validate:"gte=0,lte=1"`
	FuzzyWeight    float64 `koanf:"fuzzy_weight" validate:"gte=0,lte=1"`
	LengthDivisor  float64 `koanf:"length_divisor" validate:"gt=0"`
	LengthBonusCap float64 `koanf:"length_bonus_cap" validate:"gte=0"`
}

// Names holds the dictionaries used by the name canonicalizer.
type Names struct {
	Stopwords   []string            `koanf:"stopwords"`
	Aliases     map[string]string   `koanf:"aliases"`
	TeamAliases map[string][]string `koanf:"team_aliases"`
}

// Scoring holds one profile per source.
type Scoring struct {
	Fpedia scoring.Profile `koanf:"fpedia"`
	Fstats scoring.Profile `koanf:"fstats"`
}

// New creates a Config with the stock values.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		OutputDir: "data/output",
		Sources: Sources{
			Fpedia:       "data/input/fpedia.csv",
			Fstats:       "data/input/fstats.csv",
			Format:       "auto",
			FetchWorkers: 5,
			Timeout:      30 * time.Second,
			UserAgent:    "fantaprice/1.0",
		},
		Pricing: Pricing{
			Mode:     string(pricing.ModeBands),
			Exponent: 1.5,
			MinPrice: 1,
			Ladders:  pricing.DefaultLadders(),
			Bands:    pricing.DefaultBands(),
		},
		Matching: Matching{
			TeamWeight:     0.3,
			HighThreshold:  0.6,
			LowThreshold:   0.1,
			ForcedScore:    0.05,
			FuzzyWeight:    0.8,
			LengthDivisor:  15,
			LengthBonusCap: 0.5,
		},
		Names: Names{
			Stopwords:   canon.DefaultStopwords(),
			Aliases:     canon.DefaultAliases(),
			TeamAliases: canon.DefaultTeamAliases(),
		},
		Scoring: Scoring{
			Fpedia: scoring.DefaultFpediaProfile(),
			Fstats: scoring.DefaultFstatsProfile(),
		},
	}
}
