// Package report assembles the merged sheets and run statistics.
package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/okian/fantaprice/internal/domain/matching"
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/pkg/logger"
)

// Sheet names.
const (
	SheetFpedia     = "FPEDIA_Analysis"
	SheetFstats     = "FSTATS_Analysis"
	SheetUnified    = "Unified_Analysis"
	SheetComplete   = "Complete_Merge"
	SheetMatched    = "Matched"
	SheetUnmatched  = "Unmatched"
	SheetStatistics = "Statistics"
)

// Match statuses of the complete merge.
const (
	StatusMatched    = "MATCHED"
	StatusFpediaOnly = "FPEDIA_ONLY"
	StatusFstatsOnly = "FSTATS_ONLY"
)

const notMatched = "Non matchato"

// Sheet is a named table of string cells.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Statistics summarizes one run.
type Statistics struct {
	RunID           string         `json:"run_id,omitempty"`
	GeneratedAt     time.Time      `json:"generated_at"`
	TotalFpedia     int            `json:"total_fpedia"`
	TotalFstats     int            `json:"total_fstats"`
	Matches         int            `json:"matches"`
	Smaller         string         `json:"smaller_source"`
	FpediaCoverage  float64        `json:"fpedia_coverage_pct"`
	FstatsCoverage  float64        `json:"fstats_coverage_pct"`
	SmallerCoverage float64        `json:"smaller_coverage_pct"`
	ByPhase         map[string]int `json:"by_phase"`
	ByQuality       map[string]int `json:"by_quality"`
	AverageScore    float64        `json:"average_score"`
	UnmatchedFpedia int            `json:"unmatched_fpedia"`
	UnmatchedFstats int            `json:"unmatched_fstats"`
	UnifiedRows     int            `json:"unified_rows"`
	CompleteRows    int            `json:"complete_rows"`
}

// Report is the full output of a run, in export order.
type Report struct {
	Sheets []Sheet
	Stats  Statistics
}

// Sheet returns the sheet called name.
func (r *Report) Sheet(name string) (Sheet, bool) {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Composer builds reports.
type Composer struct {
	exclude map[string]struct{}
	now     func() time.Time
	log     logger.Logger
}

// NewComposer creates a Composer.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{now: time.Now, log: logger.Nop()}
	WithUnifiedExclusions(DefaultUnifiedExclusions())(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultUnifiedExclusions lists FPEDIA columns left out of the unified sheet.
func DefaultUnifiedExclusions() []string {
	return []string{
		"Fantamedia anno 2024-2025",
		"Presenze campionato corrente",
		"Fantamedia anno 2023-2024",
		"FM su tot gare 2024-2025",
		"Ruolo.1", "Skills.1", "Buon investimento.1", "Resistenza infortuni.1",
		"Consigliato prossima giornata.1", "Infortunato.1", "Squadra.1", "Trend.1",
		"Presenze campionato corrente.1",
	}
}

var identity = map[string]struct{}{model.ColName: {}, model.ColRole: {}, model.ColTeam: {}}

// Compose assembles every sheet from the enriched tables and the match result.
func (c *Composer) Compose(ctx context.Context, fpedia, fstats *model.Table, res matching.Result) *Report {
	if fpedia == nil {
		fpedia = &model.Table{Source: model.SourceFpedia}
	}
	if fstats == nil {
		fstats = &model.Table{Source: model.SourceFstats}
	}

	unified := c.unified(fpedia, fstats, res)
	complete := c.complete(fpedia, fstats, res)
	stats := c.statistics(fpedia, fstats, res)
	stats.UnifiedRows = len(unified.Rows)
	stats.CompleteRows = len(complete.Rows)

	r := &Report{
		Sheets: []Sheet{
			Analysis(SheetFpedia, fpedia),
			Analysis(SheetFstats, fstats),
			unified,
			complete,
			matched(fpedia, fstats, res),
			unmatched(fpedia, fstats, res),
			statisticsSheet(stats),
		},
		Stats: stats,
	}

	c.log.Info(ctx, "report composed",
		logger.Int("unified_rows", stats.UnifiedRows),
		logger.Int("complete_rows", stats.CompleteRows),
		logger.Float64("average_score", stats.AverageScore))
	return r
}

// Analysis renders an enriched table ordered by descending composite score.
func Analysis(name string, t *model.Table) Sheet {
	if t == nil {
		return Sheet{Name: name}
	}
	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return t.Records[order[i]].Score > t.Records[order[j]].Score
	})

	s := Sheet{Name: name, Columns: append([]string(nil), t.Columns...)}
	for _, i := range order {
		s.Rows = append(s.Rows, rowOf(t.Records[i], t.Columns))
	}
	return s
}

func (c *Composer) unified(fpedia, fstats *model.Table, res matching.Result) Sheet {
	var fpCols []string
	for _, col := range fpedia.Columns {
		_, base := identity[col]
		_, skip := c.exclude[col]
		if !base && !skip {
			fpCols = append(fpCols, col)
		}
	}

	s := Sheet{Name: SheetUnified, Columns: []string{model.ColName, model.ColRole, model.ColTeam}}
	for _, col := range fpCols {
		s.Columns = append(s.Columns, "FPEDIA_"+col)
	}
	s.Columns = append(s.Columns,
		"FSTATS_Prezzo_Massimo_Consigliato", "FSTATS_Convenienza", "FSTATS_Convenienza_Potenziale")

	for _, p := range res.Pairs {
		a, b := fpedia.Records[p.SourceAIndex], fstats.Records[p.SourceBIndex]
		row := []string{a.Name, a.RoleCode, a.Team}
		row = append(row, rowOf(a, fpCols)...)
		row = append(row, cell(b, model.ColPrice), cell(b, model.ColScore), cell(b, model.ColPotential))
		s.Rows = append(s.Rows, row)
	}
	return s
}

func (c *Composer) complete(fpedia, fstats *model.Table, res matching.Result) Sheet {
	fpCols := withoutIdentity(fpedia.Columns)
	fsCols := withoutIdentity(fstats.Columns)

	s := Sheet{Name: SheetComplete, Columns: []string{
		model.ColName, model.ColRole, model.ColTeam, "Match_Status", "Match_Score", "Match_Quality",
	}}
	for _, col := range fpCols {
		s.Columns = append(s.Columns, "FPEDIA_"+col)
	}
	for _, col := range fsCols {
		s.Columns = append(s.Columns, "FSTATS_"+col)
	}

	blankFp := make([]string, len(fpCols))
	blankFs := make([]string, len(fsCols))

	for _, p := range res.Pairs {
		a, b := fpedia.Records[p.SourceAIndex], fstats.Records[p.SourceBIndex]
		row := []string{a.Name, a.RoleCode, a.Team, StatusMatched, formatScore(p.Score), model.Quality(p.Score)}
		row = append(row, rowOf(a, fpCols)...)
		row = append(row, rowOf(b, fsCols)...)
		s.Rows = append(s.Rows, row)
	}
	for _, i := range res.UnmatchedA {
		a := fpedia.Records[i]
		row := []string{a.Name, a.RoleCode, a.Team, StatusFpediaOnly, "", notMatched}
		row = append(row, rowOf(a, fpCols)...)
		row = append(row, blankFs...)
		s.Rows = append(s.Rows, row)
	}
	for _, i := range res.UnmatchedB {
		b := fstats.Records[i]
		row := []string{b.Name, b.RoleCode, b.Team, StatusFstatsOnly, "", notMatched}
		row = append(row, blankFp...)
		row = append(row, rowOf(b, fsCols)...)
		s.Rows = append(s.Rows, row)
	}
	return s
}

func matched(fpedia, fstats *model.Table, res matching.Result) Sheet {
	s := Sheet{Name: SheetMatched, Columns: []string{
		"FPEDIA_Nome", "FSTATS_Nome", "FPEDIA_Squadra", "FSTATS_Squadra",
		"Similarity_Score", "Match_Phase", "Match_Quality",
	}}
	for _, p := range res.Pairs {
		a, b := fpedia.Records[p.SourceAIndex], fstats.Records[p.SourceBIndex]
		s.Rows = append(s.Rows, []string{
			a.Name, b.Name, a.Team, b.Team, formatScore(p.Score), string(p.Phase), model.Quality(p.Score),
		})
	}
	return s
}

func unmatched(fpedia, fstats *model.Table, res matching.Result) Sheet {
	s := Sheet{Name: SheetUnmatched, Columns: []string{"Source", model.ColName, model.ColTeam, model.ColRole, "Reason"}}
	for _, i := range res.UnmatchedA {
		r := fpedia.Records[i]
		s.Rows = append(s.Rows, []string{string(model.SourceFpedia), r.Name, r.Team, r.RoleCode,
			"No suitable match found in FSTATS"})
	}
	for _, i := range res.UnmatchedB {
		r := fstats.Records[i]
		s.Rows = append(s.Rows, []string{string(model.SourceFstats), r.Name, r.Team, r.RoleCode,
			"No suitable match found in FPEDIA"})
	}
	return s
}

func (c *Composer) statistics(fpedia, fstats *model.Table, res matching.Result) Statistics {
	st := Statistics{
		GeneratedAt:     c.now().UTC(),
		TotalFpedia:     fpedia.Len(),
		TotalFstats:     fstats.Len(),
		Matches:         len(res.Pairs),
		Smaller:         string(res.Smaller),
		ByPhase:         make(map[string]int),
		ByQuality:       make(map[string]int),
		UnmatchedFpedia: len(res.UnmatchedA),
		UnmatchedFstats: len(res.UnmatchedB),
	}
	st.FpediaCoverage = pct(st.Matches, st.TotalFpedia)
	st.FstatsCoverage = pct(st.Matches, st.TotalFstats)
	st.SmallerCoverage = res.Coverage * 100

	var sum float64
	for _, p := range res.Pairs {
		st.ByPhase[string(p.Phase)]++
		st.ByQuality[model.Quality(p.Score)]++
		sum += p.Score
	}
	if len(res.Pairs) > 0 {
		st.AverageScore = sum / float64(len(res.Pairs))
	}
	return st
}

func statisticsSheet(st Statistics) Sheet {
	s := Sheet{Name: SheetStatistics, Columns: []string{"Metric", "Value"}}
	add := func(k, v string) { s.Rows = append(s.Rows, []string{k, v}) }

	add("Total FPEDIA Players", strconv.Itoa(st.TotalFpedia))
	add("Total FSTATS Players", strconv.Itoa(st.TotalFstats))
	add("Total Matches Found", strconv.Itoa(st.Matches))
	add("FPEDIA Coverage", fmt.Sprintf("%.1f%%", st.FpediaCoverage))
	add("FSTATS Coverage", fmt.Sprintf("%.1f%%", st.FstatsCoverage))
	add("Smaller File Coverage", fmt.Sprintf("%.1f%%", st.SmallerCoverage))
	for _, ph := range []model.Phase{model.PhaseHighQuality, model.PhaseAggressive, model.PhaseForced} {
		add("Phase "+string(ph), strconv.Itoa(st.ByPhase[string(ph)]))
	}
	for _, q := range []string{"Eccellente", "Buono", "Discreto", "Incerto", "Forzato"} {
		add("Quality "+q, strconv.Itoa(st.ByQuality[q]))
	}
	add("Average Score", fmt.Sprintf("%.3f", st.AverageScore))
	add("Unified Analysis Rows", strconv.Itoa(st.UnifiedRows))
	add("Complete Merge Rows", strconv.Itoa(st.CompleteRows))
	return s
}

func withoutIdentity(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if _, base := identity[c]; !base {
			out = append(out, c)
		}
	}
	return out
}

func rowOf(r *model.PlayerRecord, cols []string) []string {
	row := make([]string, len(cols))
	for i, col := range cols {
		row[i] = cell(r, col)
	}
	return row
}

// cell renders a column of r; derived columns come from the record fields set by
// scoring and pricing.
func cell(r *model.PlayerRecord, col string) string {
	switch col {
	case model.ColScore:
		if r.Valued {
			return formatScore(r.Score)
		}
	case model.ColPotential:
		if r.Valued {
			return formatScore(r.Potential)
		}
	case model.ColPrice:
		if r.Price > 0 {
			return strconv.Itoa(r.Price)
		}
	}
	return r.Field(col)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
