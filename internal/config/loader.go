package config

import (
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/fantaprice/internal/domain/model"
)

// EnvPrefix prefixes every environment override; EnvFile names the YAML file variable.
const (
	EnvPrefix = "FANTA_"
	EnvFile   = "FANTA_CONFIG"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FANTA_CONFIG is set
//  3. env (prefix FANTA_, "__" separates nested keys)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "read %s", path), ErrLoadConfig)
		}
	}

	// FANTA_PRICING__MIN_PRICE -> pricing.min_price
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvFile {
			return ""
		}
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read environment"), ErrLoadConfig)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode config"), ErrLoadConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field bounds and the shape of the price tables.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "validate"), ErrInvalidConfig)
	}
	for _, role := range sortedKeys(c.Pricing.Ladders) {
		if model.ParseRole(role) == model.RoleUnknown {
			return errors.Wrapf(ErrInvalidConfig, "pricing.ladders: unknown role %q", role)
		}
		ladder := c.Pricing.Ladders[role]
		for i := 1; i < len(ladder); i++ {
			if ladder[i] > ladder[i-1] {
				return errors.Wrapf(ErrInvalidConfig, "pricing.ladders.%s must be descending", role)
			}
		}
	}
	for _, role := range sortedKeys(c.Pricing.Bands) {
		if model.ParseRole(role) == model.RoleUnknown {
			return errors.Wrapf(ErrInvalidConfig, "pricing.bands: unknown role %q", role)
		}
		bands := c.Pricing.Bands[role]
		for i := 1; i < len(bands); i++ {
			if bands[i] <= bands[i-1] {
				return errors.Wrapf(ErrInvalidConfig, "pricing.bands.%s must be increasing", role)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
