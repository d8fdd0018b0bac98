package scoring

import (
	"sort"

	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/internal/domain/normalize"
)

// Stat names a statistic the scorer knows how to use.
type Stat string

// Statistics understood by the scorer.
const (
	StatAverage          Stat = "average"
	StatAppearances      Stat = "appearances"
	StatStartShare       Stat = "start_share"
	StatGoals            Stat = "goals"
	StatAssists          Stat = "assists"
	StatExpectedGoals    Stat = "expected_goals"
	StatExpectedAssists  Stat = "expected_assists"
	StatYellowCards      Stat = "yellow_cards"
	StatRedCards         Stat = "red_cards"
	StatIndex            Stat = "index"
	StatTags             Stat = "tags"
	StatInjuryResistance Stat = "injury_resistance"
	StatInvestment       Stat = "investment"
	StatTrend            Stat = "trend"
	StatInjured          Stat = "injured"
	StatBanned           Stat = "banned"
	StatNewSigning       Stat = "new_signing"
)

func (c Columns) bindings() map[Stat]string {
	return map[Stat]string{
		StatAverage:          c.Average,
		StatAppearances:      c.Appearances,
		StatStartShare:       c.StartShare,
		StatGoals:            c.Goals,
		StatAssists:          c.Assists,
		StatExpectedGoals:    c.ExpectedGoals,
		StatExpectedAssists:  c.ExpectedAssists,
		StatYellowCards:      c.YellowCards,
		StatRedCards:         c.RedCards,
		StatIndex:            c.Index,
		StatTags:             c.Tags,
		StatInjuryResistance: c.InjuryResistance,
		StatInvestment:       c.Investment,
		StatTrend:            c.Trend,
		StatInjured:          c.Injured,
		StatBanned:           c.Banned,
		StatNewSigning:       c.NewSigning,
	}
}

// Capabilities is the set of statistics a table actually carries, resolved once
// per table. Lookups of unavailable statistics report absence.
type Capabilities struct {
	columns   map[Stat]string
	technical []string
}

// Bind resolves the profile's column bindings against a table header.
func (s *Scorer) Bind(header []string) Capabilities {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	caps := Capabilities{columns: make(map[Stat]string)}
	for stat, col := range s.profile.Columns.bindings() {
		if col != "" && present[col] {
			caps.columns[stat] = col
		}
	}
	for _, col := range s.profile.Columns.Technical {
		if present[col] {
			caps.technical = append(caps.technical, col)
		}
	}
	return caps
}

// Has reports whether stat is available.
func (c Capabilities) Has(stat Stat) bool {
	_, ok := c.columns[stat]
	return ok
}

// Missing lists configured statistics the table does not carry, sorted.
func (c Capabilities) Missing(cols Columns) []string {
	var out []string
	for stat, col := range cols.bindings() {
		if col != "" && !c.Has(stat) {
			out = append(out, string(stat))
		}
	}
	sort.Strings(out)
	return out
}

// Raw returns the raw cell of stat, or "".
func (c Capabilities) Raw(r *model.PlayerRecord, stat Stat) string {
	col, ok := c.columns[stat]
	if !ok {
		return ""
	}
	return r.Field(col)
}

// Float returns the numeric value of stat and whether it was present.
func (c Capabilities) Float(r *model.PlayerRecord, stat Stat) (float64, bool) {
	col, ok := c.columns[stat]
	if !ok {
		return 0, false
	}
	return normalize.Float(r.Field(col))
}

// Bool returns the flag value of stat; absent flags are false.
func (c Capabilities) Bool(r *model.PlayerRecord, stat Stat) bool {
	return normalize.Bool(c.Raw(r, stat))
}

// Tags returns the parsed tag list.
func (c Capabilities) Tags(r *model.PlayerRecord) []string {
	return normalize.Tags(c.Raw(r, StatTags))
}

// Technical returns the present technical index values of r.
func (c Capabilities) Technical(r *model.PlayerRecord) []float64 {
	var out []float64
	for _, col := range c.technical {
		if v, ok := normalize.Float(r.Field(col)); ok {
			out = append(out, v)
		}
	}
	return out
}
