// Package canon normalizes player and team names for cross-source matching.
package canon

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/fantaprice/pkg/logger"
)

// Minimum rune length of a multi-token run or single token kept as a variant.
const minVariantLen = 4

// Canonicalizer holds the immutable dictionaries used to normalize names.
// It is safe for concurrent use once built.
type Canonicalizer struct {
	stopwords   map[string]struct{}
	aliases     map[string][]string
	clubs       map[string]struct{}
	teamAliases map[string][]string
	log         logger.Logger
}

// New creates a Canonicalizer with the stock dictionaries.
func New(opts ...Option) *Canonicalizer {
	c := &Canonicalizer{log: logger.Nop()}
	WithStopwords(DefaultStopwords())(c)
	WithAliases(DefaultAliases())(c)
	WithTeamAliases(DefaultTeamAliases())(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set is an unordered collection of name variants.
type Set map[string]struct{}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

// stripMarks decomposes and drops combining marks. A new transformer is built
// per call since transform.Chain keeps state.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Tokens returns the significant lowercase tokens of raw.
func (c *Canonicalizer) Tokens(raw string) []string {
	s := stripMarks(strings.TrimSpace(raw))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, stop := c.stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Canonicalize returns the normalized form of raw. It is idempotent.
func (c *Canonicalizer) Canonicalize(raw string) string {
	return strings.Join(c.Tokens(raw), " ")
}

// Variants returns every candidate form of raw used for overlap matching: the full
// name, contiguous token runs, non-adjacent token pairs, significant single tokens
// and nickname substitutions of all of these.
func (c *Canonicalizer) Variants(raw string) Set {
	tokens := c.Tokens(raw)
	base := make(Set)
	if len(tokens) == 0 {
		return base
	}
	base.add(strings.Join(tokens, " "))

	if len(tokens) >= 2 {
		for i := range tokens {
			for j := i + 1; j <= len(tokens); j++ {
				run := strings.Join(tokens[i:j], " ")
				if utf8.RuneCountInString(run) >= minVariantLen {
					base.add(run)
				}
			}
			for j := i + 2; j < len(tokens); j++ {
				base.add(tokens[i] + " " + tokens[j])
			}
		}
	}

	out := make(Set, len(base)*2)
	for v := range base {
		out.add(v)
		words := strings.Fields(v)
		for i, w := range words {
			for _, alt := range c.aliases[w] {
				swapped := append([]string(nil), words...)
				swapped[i] = alt
				out.add(strings.Join(swapped, " "))
			}
		}
	}
	return out
}
