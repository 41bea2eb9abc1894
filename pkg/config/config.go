package config

import "time"

// Config is the root configuration structure for Skiff. It contains
// all configuration sections for the export engine, the row source,
// scheduled jobs, the serve-mode HTTP endpoint and telemetry.
type Config struct {
	// Export contains export engine settings: page size, output
	// directory, format and row identifier column.
	Export ExportConfig `yaml:"export"`

	// Source contains the default row source settings used by one-shot
	// exports.
	Source SourceConfig `yaml:"source"`

	// Jobs contains settings for scheduled exports in serve mode.
	Jobs JobsConfig `yaml:"jobs"`

	// Server contains the serve-mode HTTP endpoint settings (metrics
	// and health only; Skiff serves no other HTTP surface).
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ExportConfig contains export engine settings.
type ExportConfig struct {
	// PageSize is the number of rows fetched and written per step.
	// Default: 500
	PageSize int64 `yaml:"page_size"`

	// OutputDir is the artifact output directory.
	// Default: "exports"
	OutputDir string `yaml:"output_dir"`

	// Format is the artifact format: "csv", "tsv" or "jsonl".
	// Default: "csv"
	Format string `yaml:"format"`

	// IDColumn names the row field recorded as the row identifier.
	// Default: "id"
	IDColumn string `yaml:"id_column"`

	// Schema declares the field schema up front. Empty means the
	// schema is derived from the first row.
	Schema []string `yaml:"schema"`
}

// SourceConfig contains row source settings.
type SourceConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// Table is the table to export. Ignored when Query is set.
	Table string `yaml:"table"`

	// Query is a SELECT statement to export instead of a table.
	Query string `yaml:"query"`

	// Columns restricts exported columns in table mode.
	Columns []string `yaml:"columns"`

	// OrderBy is the ordering column for stable paging in table mode.
	// Default: "rowid"
	OrderBy string `yaml:"order_by"`
}

// JobsConfig contains scheduled export settings for serve mode.
type JobsConfig struct {
	// File is the path to the YAML job definitions file.
	// Default: "jobs.yaml"
	File string `yaml:"file"`

	// Watch enables hot-reload of the job definitions file.
	// Default: false
	Watch bool `yaml:"watch"`

	// StepTimeout bounds each engine step invocation.
	// Default: 30s
	StepTimeout time.Duration `yaml:"step_timeout"`
}

// ServerConfig contains the serve-mode HTTP endpoint settings.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:9190"
	ListenAddress string `yaml:"listen_address"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json", "text" or "console".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	// Default: "skiff"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem prefix.
	// Default: "export"
	Subsystem string `yaml:"subsystem"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// MetricsEnabled reports whether metrics are enabled, applying the
// default when the field is unset.
func (c *MetricsConfig) MetricsEnabled() bool {
	if c.Enabled == nil {
		return DefaultMetricsEnabled
	}
	return *c.Enabled
}
