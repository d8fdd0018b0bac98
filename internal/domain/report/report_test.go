package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/fantaprice/internal/domain/matching"
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func fixtures() (*model.Table, *model.Table, matching.Result) {
	fpedia := model.NewTable(model.SourceFpedia,
		[]string{model.ColName, model.ColRole, model.ColTeam, "Punteggio", "Fantamedia anno 2024-2025"},
		[][]string{
			{"Lautaro Martinez", "A", "Inter", "90", "7.5"},
			{"Marcus Thuram", "A", "Inter", "85", "7.0"},
			{"Nicolo Barella", "C", "Inter", "80", "6.5"},
		}).Enrich(
		[]model.Valuation{{Score: 99.5, Potential: 120}, {Score: 80, Potential: 100}, {Score: 60, Potential: 90}},
		[]int{180, 70, 50})
	fstats := model.NewTable(model.SourceFstats,
		[]string{model.ColName, model.ColRole, model.ColTeam, "goals"},
		[][]string{
			{"Martinez", "A", "Inter", "24"},
			{"Barella", "C", "Inter", "3"},
		}).Enrich(
		[]model.Valuation{{Score: 150, Potential: 100}, {Score: 70.25, Potential: 40}},
		[]int{180, 30})

	res := matching.Result{
		Pairs: []model.MatchPair{
			{SourceAIndex: 0, SourceBIndex: 0, Score: 0.95, Phase: model.PhaseHighQuality},
			{SourceAIndex: 2, SourceBIndex: 1, Score: 0.05, Phase: model.PhaseForced},
		},
		UnmatchedA: []int{1},
		Smaller:    model.SourceFstats,
		Coverage:   1,
	}
	return fpedia, fstats, res
}

func TestCompose(t *testing.T) {
	Convey("Given enriched tables and a match result", t, func() {
		fpedia, fstats, res := fixtures()
		fixed := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
		c := report.NewComposer(report.WithClock(func() time.Time { return fixed }))

		r := c.Compose(context.Background(), fpedia, fstats, res)

		Convey("Then every sheet should be present in export order", func() {
			names := make([]string, len(r.Sheets))
			for i, s := range r.Sheets {
				names[i] = s.Name
			}
			So(names, ShouldResemble, []string{
				report.SheetFpedia, report.SheetFstats, report.SheetUnified, report.SheetComplete,
				report.SheetMatched, report.SheetUnmatched, report.SheetStatistics,
			})
		})

		Convey("Then the unified sheet should prefix FPEDIA columns and add FSTATS valuations", func() {
			s, ok := r.Sheet(report.SheetUnified)
			So(ok, ShouldBeTrue)
			So(s.Columns, ShouldResemble, []string{
				"Nome", "Ruolo", "Squadra", "FPEDIA_Punteggio",
				"FPEDIA_Convenienza", "FPEDIA_Convenienza Potenziale", "FPEDIA_Prezzo Massimo Consigliato",
				"FSTATS_Prezzo_Massimo_Consigliato", "FSTATS_Convenienza", "FSTATS_Convenienza_Potenziale",
			})
			So(s.Rows, ShouldHaveLength, 2)
			So(s.Rows[0], ShouldResemble, []string{
				"Lautaro Martinez", "A", "Inter", "90", "99.5", "120", "180", "180", "150", "100",
			})
			So(s.Rows[1][len(s.Rows[1])-2], ShouldEqual, "70.25")
		})

		Convey("Then the complete merge should list matched and single-source rows", func() {
			s, _ := r.Sheet(report.SheetComplete)
			So(s.Rows, ShouldHaveLength, 3)
			So(s.Rows[0][3], ShouldEqual, report.StatusMatched)
			So(s.Rows[0][5], ShouldEqual, "Eccellente")
			So(s.Rows[1][5], ShouldEqual, "Forzato")
			So(s.Rows[2][3], ShouldEqual, report.StatusFpediaOnly)
			So(s.Rows[2][len(s.Rows[2])-1], ShouldEqual, "")
			for _, row := range s.Rows {
				So(row, ShouldHaveLength, len(s.Columns))
			}
		})

		Convey("Then matched and unmatched sheets should follow the result", func() {
			m, _ := r.Sheet(report.SheetMatched)
			So(m.Rows[0][:2], ShouldResemble, []string{"Lautaro Martinez", "Martinez"})
			So(m.Rows[1][5], ShouldEqual, "FORCED")

			u, _ := r.Sheet(report.SheetUnmatched)
			So(u.Rows, ShouldResemble, [][]string{
				{"FPEDIA", "Marcus Thuram", "Inter", "A", "No suitable match found in FSTATS"},
			})
		})

		Convey("Then per-source analyses should be ordered by score", func() {
			s, _ := r.Sheet(report.SheetFstats)
			So(s.Rows[0][0], ShouldEqual, "Martinez")
			So(s.Columns[len(s.Columns)-1], ShouldEqual, model.ColPrice)
		})

		Convey("Then statistics should summarize coverage and quality", func() {
			st := r.Stats
			So(st.GeneratedAt, ShouldEqual, fixed)
			So(st.TotalFpedia, ShouldEqual, 3)
			So(st.TotalFstats, ShouldEqual, 2)
			So(st.Matches, ShouldEqual, 2)
			So(st.FstatsCoverage, ShouldEqual, 100)
			So(st.SmallerCoverage, ShouldEqual, 100)
			So(st.ByPhase["FORCED"], ShouldEqual, 1)
			So(st.ByQuality["Eccellente"], ShouldEqual, 1)
			So(st.AverageScore, ShouldAlmostEqual, 0.5, 1e-9)
			So(st.CompleteRows, ShouldEqual, 3)

			s, _ := r.Sheet(report.SheetStatistics)
			So(s.Rows[0], ShouldResemble, []string{"Total FPEDIA Players", "3"})
		})
	})

	Convey("Given nothing to report", t, func() {
		r := report.NewComposer().Compose(context.Background(), nil, nil, matching.Result{})

		Convey("Then sheets should be empty but present", func() {
			So(r.Sheets, ShouldHaveLength, 7)
			So(r.Stats.Matches, ShouldEqual, 0)
			So(r.Stats.AverageScore, ShouldEqual, 0)
		})
	})
}
