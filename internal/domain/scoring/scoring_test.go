package scoring_test

import (
	"context"
	"testing"

	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/internal/domain/pricing"
	"github.com/okian/fantaprice/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	fpAvg  = "Fantamedia anno 2024-2025"
	fpApps = "Presenze campionato corrente"
)

func fpediaTable(rows ...[]string) *model.Table {
	cols := []string{model.ColName, model.ColTeam, model.ColRole, fpAvg, fpApps, "Punteggio", "Skills"}
	return model.NewTable(model.SourceFpedia, cols, rows)
}

func TestScorerReliabilityScenario(t *testing.T) {
	Convey("Given two forwards with equal average but different appearances", t, func() {
		s := scoring.New(scoring.DefaultFpediaProfile())
		table := fpediaTable(
			[]string{"Mario Rossi", "Inter", "A", "7.0", "30", "", ""},
			[]string{"Luigi Bianchi", "Inter", "A", "7.0", "2", "", ""},
		)

		vals := s.Score(context.Background(), table)

		Convey("Then the regular starter should score strictly higher", func() {
			So(vals, ShouldHaveLength, 2)
			So(vals[0].Score, ShouldBeGreaterThan, vals[1].Score)
			So(vals[0].Reliability, ShouldEqual, 1.0)
			So(vals[1].Reliability, ShouldAlmostEqual, 0.18, 1e-9)
		})

		Convey("Then the terms should follow the weight table", func() {
			So(vals[0].Score, ShouldAlmostEqual, 91.2, 1e-9)
			So(vals[1].Score, ShouldAlmostEqual, 53.44, 1e-9)
		})

		Convey("Then the regular starter should be priced at least as high", func() {
			prices := pricing.New().Allocate(context.Background(), model.SourceFpedia,
				table.Records, []float64{vals[0].Score, vals[1].Score})
			So(prices[0], ShouldBeGreaterThanOrEqualTo, prices[1])
			So(prices, ShouldResemble, []int{180, 1})
		})
	})
}

func TestScorerZeroAppearances(t *testing.T) {
	Convey("Given a rookie with no appearances", t, func() {
		s := scoring.New(scoring.DefaultFpediaProfile())
		table := fpediaTable(
			[]string{"Rookie", "Como", "C", "6.0", "0", "", ""},
			[]string{"Veteran", "Como", "C", "6.0", "12", "", ""},
		)
		vals := s.Score(context.Background(), table)

		Convey("Then reliability should sit at the floor and the score below the veteran", func() {
			So(vals[0].Reliability, ShouldEqual, 0.05)
			So(vals[0].Score, ShouldBeLessThan, vals[1].Score)
		})

		Convey("Then a missing appearance cell should behave like zero", func() {
			missing := fpediaTable([]string{"Rookie", "Como", "C", "6.0", "", "", ""})
			v := s.Score(context.Background(), missing)
			So(v[0].Reliability, ShouldEqual, 0.05)
			So(v[0].Score, ShouldEqual, vals[0].Score)
		})
	})

	Convey("Given a rookie among established midfielders", t, func() {
		s := scoring.New(scoring.DefaultFpediaProfile())
		table := fpediaTable(
			[]string{"Rookie", "Como", "C", "6.0", "0", "", ""},
			[]string{"Starter", "Como", "C", "6.0", "30", "", ""},
			[]string{"Regular", "Como", "C", "6.0", "25", "", ""},
			[]string{"Rotation", "Como", "C", "6.0", "20", "", ""},
			[]string{"Backup", "Como", "C", "6.0", "12", "", ""},
		)
		vals := s.Score(context.Background(), table)
		scores := make([]float64, len(vals))
		for i, v := range vals {
			scores[i] = v.Score
		}
		a := pricing.New()
		prices := a.Allocate(context.Background(), model.SourceFpedia, table.Records, scores)

		Convey("Then the rookie should get the floor tier", func() {
			ladder, ok := a.Ladder(model.RoleMidfielder)
			So(ok, ShouldBeTrue)
			So(prices[0], ShouldEqual, ladder.Min())
			for _, p := range prices[1:] {
				So(p, ShouldBeGreaterThan, ladder.Min())
			}
		})
	})
}

func TestScorerRoleMultiplier(t *testing.T) {
	Convey("Given identical statistics across the four roles", t, func() {
		s := scoring.New(scoring.DefaultFpediaProfile())
		table := fpediaTable(
			[]string{"A", "x", "A", "7.0", "30", "", ""},
			[]string{"C", "x", "C", "7.0", "30", "", ""},
			[]string{"D", "x", "D", "7.0", "30", "", ""},
			[]string{"P", "x", "P", "7.0", "30", "", ""},
		)
		vals := s.Score(context.Background(), table)

		Convey("Then forwards > midfielders > defenders > goalkeepers", func() {
			So(vals[0].Score, ShouldBeGreaterThan, vals[1].Score)
			So(vals[1].Score, ShouldBeGreaterThan, vals[2].Score)
			So(vals[2].Score, ShouldBeGreaterThan, vals[3].Score)
			So(vals[1].Score, ShouldAlmostEqual, 76, 1e-9)
		})
	})
}

func TestScorerMissingStatistics(t *testing.T) {
	Convey("Given a table without the average column", t, func() {
		s := scoring.New(scoring.DefaultFpediaProfile())
		table := model.NewTable(model.SourceFpedia,
			[]string{model.ColName, model.ColTeam, model.ColRole, fpApps},
			[][]string{{"Nobody", "Lecce", "D", "30"}})

		caps := s.Bind(table.Columns)
		b := s.Evaluate(caps, table.Records[0])

		Convey("Then only available terms should contribute", func() {
			So(caps.Has(scoring.StatAverage), ShouldBeFalse)
			So(caps.Has(scoring.StatAppearances), ShouldBeTrue)
			So(caps.Missing(s.Profile().Columns), ShouldContain, "average")
			So(b.Base, ShouldEqual, 0)
			So(b.Damped, ShouldEqual, 0)
			So(b.Usage, ShouldEqual, 15)
			So(b.Total, ShouldAlmostEqual, 13.5, 1e-9)
		})
	})

	Convey("Given an empty table", t, func() {
		s := scoring.New(scoring.DefaultFstatsProfile())
		empty := model.NewTable(model.SourceFstats, []string{model.ColName}, nil)

		Convey("Then scoring should be skipped", func() {
			So(s.Score(context.Background(), empty), ShouldBeNil)
			So(s.Score(context.Background(), nil), ShouldBeNil)
		})
	})
}

func TestScorerFstatsTerms(t *testing.T) {
	cols := []string{
		model.ColName, model.ColTeam, model.ColRole,
		"fanta_avg", "presences", "goals", "yellowCards", "redCards", "injured",
		"fantacalcioFantaindex", "xgFromOpenPlays", "xA",
	}

	Convey("Given FSTATS records", t, func() {
		s := scoring.New(scoring.DefaultFstatsProfile())
		table := model.NewTable(model.SourceFstats, cols, [][]string{
			{"Hothead", "Genoa", "D", "6", "10", "0", "4", "1", "true", "80", "2", "1"},
			{"Striker", "Napoli", "A", "9", "30", "60", "0", "0", "false", "100", "40", "10"},
			{"Keeper", "Napoli", "P", "9", "30", "60", "0", "0", "false", "100", "40", "10"},
			{"Bench", "Napoli", "C", "6", "10", "0", "0", "0", "false", "40", "1", "0.5"},
		})
		caps := s.Bind(table.Columns)

		Convey("Then penalties should be capped and scaled", func() {
			b := s.Evaluate(caps, table.Records[0])
			So(b.Penalty, ShouldAlmostEqual, 2, 1e-9)
		})

		Convey("Then scores should respect the role ceilings", func() {
			vals := s.Score(context.Background(), table)
			So(vals[1].Score, ShouldBeLessThanOrEqualTo, 200)
			So(vals[2].Score, ShouldBeLessThanOrEqualTo, 100)
			for _, v := range vals {
				So(v.Score, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})

		Convey("Then offensive production should lift the forward above the keeper", func() {
			fwd := s.Evaluate(caps, table.Records[1])
			gk := s.Evaluate(caps, table.Records[2])
			So(fwd.Offense, ShouldBeGreaterThan, 0)
			So(gk.Offense, ShouldEqual, 0)
			So(fwd.Total, ShouldBeGreaterThan, gk.Total)
		})

		Convey("Then potential should be rescaled to the table maximum", func() {
			vals := s.Score(context.Background(), table)
			So(vals[1].Potential, ShouldEqual, 100)
			So(vals[0].Potential, ShouldAlmostEqual, 86.0/200*100, 1e-9)
			So(vals[3].Potential, ShouldAlmostEqual, 43.0/200*100, 1e-9)
		})
	})
}

func TestScorerFpediaPotential(t *testing.T) {
	Convey("Given an FPEDIA player with skills", t, func() {
		s := scoring.New(scoring.DefaultFpediaProfile())
		table := fpediaTable([]string{"Lautaro", "Inter", "A", "7.5", "30", "80", "['Rigorista', 'Titolare']"})
		vals := s.Score(context.Background(), table)

		Convey("Then potential should add weighted skill points to the index", func() {
			So(vals[0].Potential, ShouldEqual, 96)
		})

		Convey("Then positive tags should add to the composite score", func() {
			plain := s.Score(context.Background(), fpediaTable([]string{"Lautaro", "Inter", "A", "7.5", "30", "80", ""}))
			So(vals[0].Score, ShouldBeGreaterThan, plain[0].Score)
		})
	})
}
