package canon

import (
	"context"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

var (
	singleQuotedName = regexp.MustCompile(`'name':\s*'([^']+)'`)
	doubleQuotedName = regexp.MustCompile(`"name":\s*"([^"]+)"`)
)

// Similarity awarded when one team name contains the other.
const partialTeamSimilarity = 0.7

type teamObject struct {
	Name string `json:"name"`
}

// ExtractTeam returns the canonical team name of raw. Structured values such as
// {"id": 1, "name": "Inter"} yield their name field; malformed ones fall back to
// regex extraction and finally to the raw string.
func (c *Canonicalizer) ExtractTeam(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") {
		return c.Canonicalize(s)
	}

	var obj teamObject
	if err := sonic.UnmarshalString(s, &obj); err == nil && obj.Name != "" {
		return c.Canonicalize(obj.Name)
	}

	metrics.RecordParseFallback("team")
	for _, re := range []*regexp.Regexp{singleQuotedName, doubleQuotedName} {
		if m := re.FindStringSubmatch(s); m != nil {
			return c.Canonicalize(m[1])
		}
	}

	c.log.Debug(context.Background(), "team value not structured, using raw string", logger.String("team", s))
	return c.Canonicalize(s)
}

// clubsOf returns the clubs a canonical team name can refer to. A name equal to a
// club key refers to that club only.
func (c *Canonicalizer) clubsOf(name string) []string {
	if _, ok := c.clubs[name]; ok {
		return []string{name}
	}
	return c.teamAliases[name]
}

// TeamSimilarity compares two canonical team names: 1 for the same name or club,
// 0.7 when one contains the other, 0 otherwise.
func (c *Canonicalizer) TeamSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	for _, ca := range c.clubsOf(a) {
		for _, cb := range c.clubsOf(b) {
			if ca == cb {
				return 1
			}
		}
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return partialTeamSimilarity
	}
	return 0
}
