package canon

import (
	"strings"

	"github.com/okian/fantaprice/pkg/logger"
)

// Option applies a configuration option to the Canonicalizer.
type Option func(*Canonicalizer)

// WithStopwords replaces the particle list dropped from names.
func WithStopwords(words []string) Option {
	return func(c *Canonicalizer) {
		if words == nil {
			return
		}
		c.stopwords = make(map[string]struct{}, len(words))
		for _, w := range words {
			c.stopwords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
		}
	}
}

// WithAliases replaces the nickname table. Each entry is applied in both directions.
func WithAliases(aliases map[string]string) Option {
	return func(c *Canonicalizer) {
		if aliases == nil {
			return
		}
		c.aliases = make(map[string][]string, len(aliases)*2)
		for from, to := range aliases {
			from, to = strings.ToLower(strings.TrimSpace(from)), strings.ToLower(strings.TrimSpace(to))
			if from == "" || to == "" || from == to {
				continue
			}
			c.aliases[from] = appendUnique(c.aliases[from], to)
			c.aliases[to] = appendUnique(c.aliases[to], from)
		}
	}
}

// WithTeamAliases replaces the club alias sets, keyed by club name.
func WithTeamAliases(teams map[string][]string) Option {
	return func(c *Canonicalizer) {
		if teams == nil {
			return
		}
		c.clubs = make(map[string]struct{}, len(teams))
		c.teamAliases = make(map[string][]string)
		for club, names := range teams {
			club = strings.ToLower(strings.TrimSpace(club))
			c.clubs[club] = struct{}{}
			c.teamAliases[club] = appendUnique(c.teamAliases[club], club)
			for _, n := range names {
				n = strings.ToLower(strings.TrimSpace(n))
				if n != "" {
					c.teamAliases[n] = appendUnique(c.teamAliases[n], club)
				}
			}
		}
	}
}

// WithLogger sets the logger used for parse fallbacks.
func WithLogger(l logger.Logger) Option {
	return func(c *Canonicalizer) {
		if l != nil {
			c.log = l
		}
	}
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
