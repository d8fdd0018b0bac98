package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/fantaprice/internal/app"
	"github.com/okian/fantaprice/internal/config"
	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

// Process exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("fantaprice", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML config file (overrides "+config.EnvFile+")")
		fpedia     = fs.String("fpedia", "", "FPEDIA export path or URL")
		fstats     = fs.String("fstats", "", "FSTATS export path or URL")
		outputDir  = fs.String("out", "", "Output directory for sheets and summary")
		metricsOut = fs.String("metrics", "", "Prometheus textfile written after the run")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *configPath != "" {
		_ = os.Setenv(config.EnvFile, *configPath)
	}

	// Load configuration (defaults -> optional file -> env), then flags
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't configured until the config is known
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitError
	}
	overrideString(&cfg.Sources.Fpedia, *fpedia)
	overrideString(&cfg.Sources.Fstats, *fstats)
	overrideString(&cfg.OutputDir, *outputDir)
	overrideString(&cfg.MetricsFile, *metricsOut)

	var logOpts []logger.Option
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.LogFile))
	}
	if err := logger.Init(logOpts...); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts, err := app.OptionsFromConfig(cfg)
	if err != nil {
		log.Error(ctx, "invalid configuration", logger.Error(err))
		return exitError
	}
	svc := app.New(append(opts, app.WithLogger(log))...)

	res, runErr := svc.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error(ctx, "metrics export failed", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}

	if runErr != nil {
		log.Error(ctx, "pipeline failed", logger.Error(runErr))
		return exitError
	}

	st := res.Report.Stats
	log.Info(ctx, "run complete",
		logger.String("run_id", res.RunID),
		logger.Int("fpedia", st.TotalFpedia),
		logger.Int("fstats", st.TotalFstats),
		logger.Int("matches", st.Matches),
		logger.Float64("smaller_coverage_pct", st.SmallerCoverage),
		logger.String("output", cfg.OutputDir))
	return exitOK
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
