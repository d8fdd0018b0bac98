package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/fantaprice/internal/app"
	"github.com/okian/fantaprice/internal/config"
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/internal/domain/report"
	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const fpediaCSV = `Nome,Squadra,Ruolo,Fantamedia anno 2024-2025,Presenze campionato corrente,Punteggio,Skills
Lautaro Martinez,Inter,A,7.8,33,95,"['Rigorista', 'Titolare']"
Rafael Leao,Milan,A,6.9,30,88,['Fuoriclasse']
Mike Maignan,Milan,P,5.6,34,80,['Titolare']
Nicolo Barella,Inter,C,6.5,32,84,['Titolare']
`

const fstatsJSON = `[
  {"Nome": "Martinez", "Squadra": {"id": 108, "name": "Inter"}, "Ruolo": "A", "fanta_avg": 7.9, "presences": 33, "goals": 22, "assists": 4, "fantacalcioFantaindex": 91},
  {"Nome": "Leão", "Squadra": {"id": 98, "name": "Milan"}, "Ruolo": "A", "fanta_avg": 7.0, "presences": 30, "goals": 10, "assists": 8, "fantacalcioFantaindex": 84},
  {"Nome": "Barella", "Squadra": {"id": 108, "name": "Inter"}, "Ruolo": "C", "fanta_avg": 6.6, "presences": 32, "goals": 3, "assists": 6, "fantacalcioFantaindex": 80}
]`

// stageSeries returns, per stage label, the value of a counter or the sample
// count of a histogram in the pipeline metrics family named metric.
func stageSeries(t *testing.T, metric string) map[string]float64 {
	t.Helper()
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	out := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "fanta_pipeline_"+metric {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "stage" {
					continue
				}
				if h := m.GetHistogram(); h != nil {
					out[lp.GetValue()] = float64(h.GetSampleCount())
				} else {
					out[lp.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	return out
}

func fixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	fp := filepath.Join(dir, "fpedia.csv")
	fs := filepath.Join(dir, "fstats.json")
	if err := os.WriteFile(fp, []byte(fpediaCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs, []byte(fstatsJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return fp, fs
}

func TestServiceRun(t *testing.T) {
	Convey("Given a service reading two exports", t, func() {
		fp, fs := fixtures(t)
		out := filepath.Join(t.TempDir(), "output")
		svc := service.New(
			service.WithSources(fp, fs),
			service.WithOutputDir(out),
			service.WithRunIDFunc(func() string { return "run-1" }),
		)

		Convey("When the pipeline runs", func() {
			res, err := svc.Run(context.Background())

			Convey("Then every FSTATS player should be matched to its FPEDIA counterpart", func() {
				So(err, ShouldBeNil)
				So(res.RunID, ShouldEqual, "run-1")
				So(res.Match.Smaller, ShouldEqual, model.SourceFstats)
				So(res.Match.Coverage, ShouldEqual, 1)
				So(res.Match.Pairs, ShouldHaveLength, 3)
				So(res.Match.UnmatchedA, ShouldResemble, []int{2})
				for _, p := range res.Match.Pairs {
					So(p.Phase, ShouldEqual, model.PhaseHighQuality)
				}
				So(res.Match.Pairs[0].SourceAIndex, ShouldEqual, 0)
				So(res.Match.Pairs[1].SourceAIndex, ShouldEqual, 1)
				So(res.Match.Pairs[2].SourceAIndex, ShouldEqual, 3)
			})

			Convey("Then both tables should be scored and priced", func() {
				for _, tbl := range []*model.Table{res.Fpedia, res.Fstats} {
					So(tbl.HasColumn(model.ColPrice), ShouldBeTrue)
					for _, r := range tbl.Records {
						So(r.Valued, ShouldBeTrue)
						So(r.Score, ShouldBeGreaterThan, 0)
						So(r.Price, ShouldBeGreaterThanOrEqualTo, 1)
					}
				}
				So(res.Fpedia.Records[0].Price, ShouldEqual, 180)
			})

			Convey("Then the report should be exported with a summary", func() {
				So(res.Files, ShouldHaveLength, 8)
				for _, f := range res.Files {
					_, statErr := os.Stat(f)
					So(statErr, ShouldBeNil)
				}
				So(res.Report.Stats.RunID, ShouldEqual, "run-1")
				So(res.Report.Stats.Matches, ShouldEqual, 3)

				summary, err := os.ReadFile(filepath.Join(out, service.SummaryFile))
				So(err, ShouldBeNil)
				So(string(summary), ShouldContainSubstring, `"run_id": "run-1"`)

				matched, err := os.ReadFile(filepath.Join(out, report.SheetMatched+".csv"))
				So(err, ShouldBeNil)
				So(string(matched), ShouldContainSubstring, "Lautaro Martinez,Martinez")
			})
		})
	})

	Convey("Given a service without an output directory", t, func() {
		fp, fs := fixtures(t)
		svc := service.New(service.WithSources(fp, fs))

		Convey("When the pipeline runs", func() {
			res, err := svc.Run(context.Background())

			Convey("Then nothing should be exported and a run id should be generated", func() {
				So(err, ShouldBeNil)
				So(res.Files, ShouldBeEmpty)
				So(res.RunID, ShouldHaveLength, 36)
			})
		})
	})

	Convey("Given an FSTATS export with no rows", t, func() {
		fp, _ := fixtures(t)
		empty := filepath.Join(t.TempDir(), "fstats.csv")
		So(os.WriteFile(empty, []byte("Nome,Squadra,Ruolo\n"), 0o600), ShouldBeNil)
		svc := service.New(service.WithSources(fp, empty))

		Convey("When the pipeline runs", func() {
			res, err := svc.Run(context.Background())

			Convey("Then the empty table should pass through unscored", func() {
				So(err, ShouldBeNil)
				So(res.Fstats.Len(), ShouldEqual, 0)
				So(res.Fstats.HasColumn(model.ColScore), ShouldBeFalse)
				So(res.Match.Pairs, ShouldBeEmpty)
				So(res.Match.UnmatchedA, ShouldHaveLength, 4)
			})
		})
	})

	Convey("Given an FSTATS API dump with no players", t, func() {
		fp, _ := fixtures(t)
		for _, body := range []string{`[]`, `{"data": []}`} {
			empty := filepath.Join(t.TempDir(), "fstats.json")
			So(os.WriteFile(empty, []byte(body), 0o600), ShouldBeNil)

			res, err := service.New(service.WithSources(fp, empty)).Run(context.Background())

			So(err, ShouldBeNil)
			So(res.Fstats.Len(), ShouldEqual, 0)
			So(res.Fstats.HasColumn(model.ColName), ShouldBeTrue)
			So(res.Match.Pairs, ShouldBeEmpty)
			So(res.Match.UnmatchedA, ShouldHaveLength, 4)
			So(res.Fpedia.Records[0].Price, ShouldEqual, 180)
		}
	})

	Convey("Given an output directory that cannot be created", t, func() {
		fp, fs := fixtures(t)
		blocker := filepath.Join(t.TempDir(), "taken")
		So(os.WriteFile(blocker, []byte("x"), 0o600), ShouldBeNil)
		svc := service.New(service.WithSources(fp, fs), service.WithOutputDir(filepath.Join(blocker, "out")))
		beforeErrs := stageSeries(t, "stage_errors_total")
		beforeRuns := stageSeries(t, "stage_duration_seconds")

		Convey("When the pipeline runs", func() {
			res, err := svc.Run(context.Background())
			afterErrs := stageSeries(t, "stage_errors_total")
			afterRuns := stageSeries(t, "stage_duration_seconds")

			Convey("Then only the export stage should be counted as failed", func() {
				So(err, ShouldNotBeNil)
				So(res, ShouldNotBeNil)
				So(res.Report, ShouldNotBeNil)
				So(afterErrs[service.StageExport]-beforeErrs[service.StageExport], ShouldEqual, 1)
				for _, st := range []string{service.StageScore, service.StagePrice, service.StageMatch, service.StageReport} {
					So(afterErrs[st], ShouldEqual, beforeErrs[st])
					So(afterRuns[st]-beforeRuns[st], ShouldEqual, 1)
				}
			})
		})
	})

	Convey("Given a missing input file", t, func() {
		_, fs := fixtures(t)
		svc := service.New(service.WithSources(filepath.Join(t.TempDir(), "missing.csv"), fs))

		Convey("When the pipeline runs", func() {
			res, err := svc.Run(context.Background())

			Convey("Then the load error should be returned", func() {
				So(res, ShouldBeNil)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})
	})
}

func TestOptionsFromConfig(t *testing.T) {
	Convey("Given a loaded configuration", t, func() {
		fp, fs := fixtures(t)
		cfg := config.New()
		cfg.Sources.Fpedia, cfg.Sources.Fstats = fp, fs
		cfg.OutputDir = t.TempDir()
		cfg.Pricing.Mode = "interpolate"

		Convey("When it is turned into service options", func() {
			opts, err := service.OptionsFromConfig(cfg)

			Convey("Then the service should run with them", func() {
				So(err, ShouldBeNil)
				res, err := service.New(opts...).Run(context.Background())
				So(err, ShouldBeNil)
				So(res.Match.Coverage, ShouldEqual, 1)
				So(res.Fpedia.Records[0].Price, ShouldEqual, 180)
			})
		})

		Convey("When the format is unknown", func() {
			cfg.Sources.Format = "xlsx"
			_, err := service.OptionsFromConfig(cfg)

			Convey("Then an error should be returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
