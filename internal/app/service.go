// Package service runs the valuation pipeline: load, score, price, match,
// report and export.
package service

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/okian/fantaprice/internal/adapters/source"
	"github.com/okian/fantaprice/internal/adapters/tabular"
	"github.com/okian/fantaprice/internal/domain/canon"
	"github.com/okian/fantaprice/internal/domain/matching"
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/internal/domain/pricing"
	"github.com/okian/fantaprice/internal/domain/report"
	"github.com/okian/fantaprice/internal/domain/scoring"
	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

// Pipeline stage names, used as metric labels.
const (
	StageLoad   = "load"
	StageScore  = "score"
	StagePrice  = "price"
	StageMatch  = "match"
	StageReport = "report"
	StageExport = "export"
)

// SummaryFile is the JSON statistics file written next to the sheets.
const SummaryFile = "summary.json"

// ErrMissingSource is returned when a loaded dataset is absent from the loader output.
var ErrMissingSource = errors.New("source missing from load result")

// Result is the outcome of one run.
type Result struct {
	RunID  string
	Fpedia *model.Table
	Fstats *model.Table
	Match  matching.Result
	Report *report.Report
	Files  []string
}

// Service wires the pipeline stages.
type Service struct {
	mu sync.Mutex

	// Inputs
	fpediaLocation string
	fstatsLocation string
	format         tabular.Format
	outputDir      string

	// Stage configuration
	fpediaProfile scoring.Profile
	fstatsProfile scoring.Profile
	loaderOpts    []source.Option
	pricingOpts   []pricing.Option
	canonOpts     []canon.Option
	matchingOpts  []matching.Option
	reportOpts    []report.Option
	newRunID      func() string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets where the FPEDIA and FSTATS datasets are read from.
func WithSources(fpedia, fstats string) Option {
	return func(s *Service) {
		s.fpediaLocation = fpedia
		s.fstatsLocation = fstats
	}
}

// WithFormat forces a table format for both sources.
func WithFormat(f tabular.Format) Option {
	return func(s *Service) {
		if f != "" {
			s.format = f
		}
	}
}

// WithOutputDir sets the export directory. An empty directory disables export.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		s.outputDir = dir
	}
}

// WithProfiles replaces the scoring profiles.
func WithProfiles(fpedia, fstats scoring.Profile) Option {
	return func(s *Service) {
		s.fpediaProfile = fpedia
		s.fstatsProfile = fstats
	}
}

// WithLoaderOptions configures the source loader.
func WithLoaderOptions(opts ...source.Option) Option {
	return func(s *Service) { s.loaderOpts = append(s.loaderOpts, opts...) }
}

// WithPricingOptions configures the price allocator.
func WithPricingOptions(opts ...pricing.Option) Option {
	return func(s *Service) { s.pricingOpts = append(s.pricingOpts, opts...) }
}

// WithCanonOptions configures the name canonicalizer.
func WithCanonOptions(opts ...canon.Option) Option {
	return func(s *Service) { s.canonOpts = append(s.canonOpts, opts...) }
}

// WithMatchingOptions configures the entity matcher.
func WithMatchingOptions(opts ...matching.Option) Option {
	return func(s *Service) { s.matchingOpts = append(s.matchingOpts, opts...) }
}

// WithReportOptions configures the report composer.
func WithReportOptions(opts ...report.Option) Option {
	return func(s *Service) { s.reportOpts = append(s.reportOpts, opts...) }
}

// WithRunIDFunc overrides run id generation.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		format:        tabular.FormatAuto,
		fpediaProfile: scoring.DefaultFpediaProfile(),
		fstatsProfile: scoring.DefaultFstatsProfile(),
		newRunID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Run executes one full pipeline pass. Runs are serialized.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{RunID: s.newRunID()}
	log := s.logger.With(logger.String("run_id", res.RunID))
	log.Info(ctx, "pipeline started",
		logger.String("fpedia", s.fpediaLocation),
		logger.String("fstats", s.fstatsLocation))
	defer metrics.UpdateLastRun(time.Now().Unix())

	var fpedia, fstats *model.Table
	err := s.stage(ctx, log, StageLoad, func() error {
		var err error
		fpedia, fstats, err = s.load(ctx, log)
		return err
	})
	if err != nil {
		return nil, err
	}

	fpScorer := scoring.New(s.fpediaProfile, scoring.WithLogger(log.Named("scoring")))
	fsScorer := scoring.New(s.fstatsProfile, scoring.WithLogger(log.Named("scoring")))
	var fpVals, fsVals []model.Valuation
	s.timed(ctx, log, StageScore, func() {
		fpVals = fpScorer.Score(ctx, fpedia)
		fsVals = fsScorer.Score(ctx, fstats)
	})

	allocator := pricing.New(append([]pricing.Option{pricing.WithLogger(log.Named("pricing"))}, s.pricingOpts...)...)
	s.timed(ctx, log, StagePrice, func() {
		res.Fpedia = enrich(ctx, allocator, fpedia, fpVals)
		res.Fstats = enrich(ctx, allocator, fstats, fsVals)
	})

	c := canon.New(append([]canon.Option{canon.WithLogger(log.Named("canon"))}, s.canonOpts...)...)
	matcher := matching.New(c, append([]matching.Option{matching.WithLogger(log.Named("matching"))}, s.matchingOpts...)...)
	s.timed(ctx, log, StageMatch, func() {
		res.Match = matcher.Match(ctx, res.Fpedia, res.Fstats)
	})

	composer := report.NewComposer(append([]report.Option{report.WithLogger(log.Named("report"))}, s.reportOpts...)...)
	s.timed(ctx, log, StageReport, func() {
		res.Report = composer.Compose(ctx, res.Fpedia, res.Fstats, res.Match)
		res.Report.Stats.RunID = res.RunID
	})

	if s.outputDir != "" {
		err = s.stage(ctx, log, StageExport, func() error {
			var err error
			res.Files, err = Export(s.outputDir, res.Report)
			return err
		})
		if err != nil {
			return res, err
		}
	}

	log.Info(ctx, "pipeline finished",
		logger.Int("matches", len(res.Match.Pairs)),
		logger.Float64("coverage", res.Match.Coverage),
		logger.Int("files", len(res.Files)))
	return res, nil
}

func (s *Service) load(ctx context.Context, log logger.Logger) (*model.Table, *model.Table, error) {
	loader := source.New(append([]source.Option{source.WithLogger(log.Named("source"))}, s.loaderOpts...)...)
	tables, err := loader.Load(ctx,
		source.Dataset{Source: model.SourceFpedia, Location: s.fpediaLocation, Format: s.format},
		source.Dataset{Source: model.SourceFstats, Location: s.fstatsLocation, Format: s.format},
	)
	if err != nil {
		return nil, nil, err
	}
	fpedia, ok := tables[model.SourceFpedia]
	if !ok {
		return nil, nil, errors.Wrapf(ErrMissingSource, "%s", model.SourceFpedia)
	}
	fstats, ok := tables[model.SourceFstats]
	if !ok {
		return nil, nil, errors.Wrapf(ErrMissingSource, "%s", model.SourceFstats)
	}
	return fpedia, fstats, nil
}

// enrich prices a scored table. Unscored tables are returned as loaded.
func enrich(ctx context.Context, a *pricing.Allocator, t *model.Table, vals []model.Valuation) *model.Table {
	if len(vals) == 0 {
		return t
	}
	scores := make([]float64, len(vals))
	for i, v := range vals {
		scores[i] = v.Score
	}
	prices := a.Allocate(ctx, t.Source, t.Records, scores)
	return t.Enrich(vals, prices)
}

func (s *Service) stage(ctx context.Context, log logger.Logger, name string, fn func() error) error {
	var err error
	s.timed(ctx, log, name, func() { err = fn() })
	if err != nil {
		metrics.RecordStageError(name)
		log.Error(ctx, "stage failed", logger.String("stage", name), logger.Error(err))
		return err
	}
	return nil
}

// timed runs a stage that cannot fail and records its duration.
func (s *Service) timed(ctx context.Context, log logger.Logger, name string, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	metrics.RecordStageDuration(name, elapsed.Seconds())
	log.Debug(ctx, "stage done", logger.String("stage", name), logger.Any("elapsed", elapsed))
}

// Export writes one CSV per sheet and the JSON summary into dir.
func Export(dir string, r *report.Report) ([]string, error) {
	files := make([]string, 0, len(r.Sheets)+1)
	for _, sheet := range r.Sheets {
		path := filepath.Join(dir, sheet.Name+".csv")
		if err := tabular.WriteCSVFile(path, sheet.Columns, sheet.Rows); err != nil {
			return files, errors.Wrapf(err, "export %s", sheet.Name)
		}
		files = append(files, path)
	}
	path := filepath.Join(dir, SummaryFile)
	if err := tabular.WriteJSONFile(path, r.Stats); err != nil {
		return files, errors.Wrap(err, "export summary")
	}
	return append(files, path), nil
}
