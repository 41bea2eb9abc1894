package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"skiff-hq/skiff/pkg/config"
)

// Collector owns the Prometheus registry and all Skiff metrics.
type Collector struct {
	registry *prometheus.Registry

	// Export tracks export run and step metrics.
	Export *ExportMetrics
}

// ExportMetrics tracks metrics for export runs.
//
// Metrics:
//   - skiff_export_runs_total: completed/failed run count
//   - skiff_export_active_runs: currently active runs
//   - skiff_export_rows_total: rows written, by format
//   - skiff_export_step_duration_seconds: step duration histogram
//   - skiff_export_artifact_bytes_total: artifact bytes written, by format
type ExportMetrics struct {
	runsTotal     *prometheus.CounterVec
	activeRuns    prometheus.Gauge
	rowsTotal     *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	artifactBytes *prometheus.CounterVec
}

// NewCollector creates a collector and registers all metrics with a
// fresh registry. The registry also carries the standard Go runtime
// and process collectors.
func NewCollector(cfg *config.MetricsConfig) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		Export:   newExportMetrics(cfg, registry),
	}
}

func newExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of export runs by terminal status",
			},
			[]string{"status"},
		),

		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "active_runs",
				Help:      "Number of export runs currently in progress",
			},
		),

		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows_total",
				Help:      "Total number of rows written to artifacts",
			},
			[]string{"format"},
		),

		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "step_duration_seconds",
				Help:      "Duration of export engine steps in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),

		artifactBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "artifact_bytes_total",
				Help:      "Total bytes written to export artifacts",
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(
		em.runsTotal,
		em.activeRuns,
		em.rowsTotal,
		em.stepDuration,
		em.artifactBytes,
	)
	return em
}

// RunStarted records the start of an export run.
func (m *ExportMetrics) RunStarted() {
	m.activeRuns.Inc()
}

// RunFinished records a run reaching its terminal state.
// Status is "completed" or "failed".
func (m *ExportMetrics) RunFinished(status string) {
	m.activeRuns.Dec()
	m.runsTotal.WithLabelValues(status).Inc()
}

// RecordStep records one engine step.
func (m *ExportMetrics) RecordStep(format string, duration time.Duration, rows int64) {
	m.stepDuration.WithLabelValues(format).Observe(duration.Seconds())
	if rows > 0 {
		m.rowsTotal.WithLabelValues(format).Add(float64(rows))
	}
}

// RecordArtifactBytes records bytes appended to an artifact.
func (m *ExportMetrics) RecordArtifactBytes(format string, n int64) {
	if n > 0 {
		m.artifactBytes.WithLabelValues(format).Add(float64(n))
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
