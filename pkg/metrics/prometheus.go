// Package metrics provides Prometheus metrics for the valuation pipeline.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for one pipeline process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Loading
	rowsLoaded  *prometheus.CounterVec
	loadErrors  *prometheus.CounterVec
	sourceBytes *prometheus.GaugeVec

	// Valuation
	recordsScored   *prometheus.CounterVec
	scoringSkipped  *prometheus.CounterVec
	pricesAllocated *prometheus.CounterVec
	priceValue      *prometheus.HistogramVec
	parseFallbacks  *prometheus.CounterVec

	// Matching
	matchesByPhase *prometheus.CounterVec
	matchCoverage  prometheus.Gauge
	unmatched      *prometheus.GaugeVec
	coverageErrors prometheus.Counter

	// Stages
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	lastRunUnix   prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fanta",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = m.counterVec("rows_loaded_total", "Rows loaded per source", "source")
	m.loadErrors = m.counterVec("load_errors_total", "Failed source loads", "source")
	m.sourceBytes = m.gaugeVec("source_bytes", "Size in bytes of the last payload read per source", "source")

	m.recordsScored = m.counterVec("records_scored_total", "Records scored per source and role", "source", "role")
	m.scoringSkipped = m.counterVec("scoring_skipped_total", "Tables left unscored because they were empty", "source")
	m.pricesAllocated = m.counterVec("prices_allocated_total", "Prices assigned per source and role", "source", "role")
	m.priceValue = m.histogramVec("price_credits", "Distribution of recommended prices",
		[]float64{1, 2, 5, 10, 20, 30, 50, 70, 100, 180}, "source", "role")
	m.parseFallbacks = m.counterVec("parse_fallbacks_total", "Cells that needed a weaker parse strategy", "kind")

	m.matchesByPhase = m.counterVec("matches_total", "Match pairs produced per phase", "phase")
	m.matchCoverage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("match_coverage_ratio"),
		Help:        "Fraction of the smaller dataset that received a match",
		ConstLabels: m.customLabels,
	})
	m.unmatched = m.gaugeVec("unmatched_records", "Unmatched records per source after matching", "source")
	m.coverageErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("coverage_violations_total"),
		Help:        "Runs where the smaller dataset was not fully matched",
		ConstLabels: m.customLabels,
	})

	m.stageDuration = m.histogramVec("stage_duration_seconds", "Duration of each pipeline stage",
		m.histogramBuckets, "stage")
	m.stageErrors = m.counterVec("stage_errors_total", "Errors per pipeline stage", "stage")
	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_run_timestamp_seconds"),
		Help:        "Unix time of the last completed run",
		ConstLabels: m.customLabels,
	})
}

// RecordRowsLoaded adds n rows to the loaded counter of source.
func (m *Manager) RecordRowsLoaded(source string, n int) {
	if m.enabled {
		m.rowsLoaded.WithLabelValues(source).Add(float64(n))
	}
}

// RecordLoadError counts a failed load of source.
func (m *Manager) RecordLoadError(source string) {
	if m.enabled {
		m.loadErrors.WithLabelValues(source).Inc()
	}
}

// UpdateSourceBytes sets the payload size of source.
func (m *Manager) UpdateSourceBytes(source string, n int) {
	if m.enabled {
		m.sourceBytes.WithLabelValues(source).Set(float64(n))
	}
}

// RecordScored counts one scored record.
func (m *Manager) RecordScored(source, role string) {
	if m.enabled {
		m.recordsScored.WithLabelValues(source, role).Inc()
	}
}

// RecordScoringSkipped counts a table left unscored.
func (m *Manager) RecordScoringSkipped(source string) {
	if m.enabled {
		m.scoringSkipped.WithLabelValues(source).Inc()
	}
}

// RecordPrice counts and observes one allocated price.
func (m *Manager) RecordPrice(source, role string, price int) {
	if m.enabled {
		m.pricesAllocated.WithLabelValues(source, role).Inc()
		m.priceValue.WithLabelValues(source, role).Observe(float64(price))
	}
}

// RecordParseFallback counts a cell parsed with a weaker strategy.
func (m *Manager) RecordParseFallback(kind string) {
	if m.enabled {
		m.parseFallbacks.WithLabelValues(kind).Inc()
	}
}

// RecordMatch counts one match pair of phase.
func (m *Manager) RecordMatch(phase string) {
	if m.enabled {
		m.matchesByPhase.WithLabelValues(phase).Inc()
	}
}

// UpdateCoverage sets the coverage gauge.
func (m *Manager) UpdateCoverage(ratio float64) {
	if m.enabled {
		m.matchCoverage.Set(ratio)
	}
}

// UpdateUnmatched sets the unmatched gauge of source.
func (m *Manager) UpdateUnmatched(source string, n int) {
	if m.enabled {
		m.unmatched.WithLabelValues(source).Set(float64(n))
	}
}

// RecordCoverageViolation counts a run that missed full coverage.
func (m *Manager) RecordCoverageViolation() {
	if m.enabled {
		m.coverageErrors.Inc()
	}
}

// RecordStageDuration observes the duration of stage in seconds.
func (m *Manager) RecordStageDuration(stage string, seconds float64) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(seconds)
	}
}

// RecordStageError counts a failure of stage.
func (m *Manager) RecordStageError(stage string) {
	if m.enabled {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

// UpdateLastRun sets the last run timestamp.
func (m *Manager) UpdateLastRun(unix int64) {
	if m.enabled {
		m.lastRunUnix.Set(float64(unix))
	}
}

// RecordRowsLoaded adds n rows to the loaded counter of source.
func RecordRowsLoaded(source string, n int) { globalManager.RecordRowsLoaded(source, n) }

// RecordLoadError counts a failed load of source.
func RecordLoadError(source string) { globalManager.RecordLoadError(source) }

// UpdateSourceBytes sets the payload size of source.
func UpdateSourceBytes(source string, n int) { globalManager.UpdateSourceBytes(source, n) }

// RecordScored counts one scored record.
func RecordScored(source, role string) { globalManager.RecordScored(source, role) }

// RecordScoringSkipped counts a table left unscored.
func RecordScoringSkipped(source string) { globalManager.RecordScoringSkipped(source) }

// RecordPrice counts and observes one allocated price.
func RecordPrice(source, role string, price int) { globalManager.RecordPrice(source, role, price) }

// RecordParseFallback counts a cell parsed with a weaker strategy.
func RecordParseFallback(kind string) { globalManager.RecordParseFallback(kind) }

// RecordMatch counts one match pair of phase.
func RecordMatch(phase string) { globalManager.RecordMatch(phase) }

// UpdateCoverage sets the coverage gauge.
func UpdateCoverage(ratio float64) { globalManager.UpdateCoverage(ratio) }

// UpdateUnmatched sets the unmatched gauge of source.
func UpdateUnmatched(source string, n int) { globalManager.UpdateUnmatched(source, n) }

// RecordCoverageViolation counts a run that missed full coverage.
func RecordCoverageViolation() { globalManager.RecordCoverageViolation() }

// RecordStageDuration observes the duration of stage in seconds.
func RecordStageDuration(stage string, seconds float64) {
	globalManager.RecordStageDuration(stage, seconds)
}

// RecordStageError counts a failure of stage.
func RecordStageError(stage string) { globalManager.RecordStageError(stage) }

// UpdateLastRun sets the last run timestamp.
func UpdateLastRun(unix int64) { globalManager.UpdateLastRun(unix) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}
