package config

import "time"

// Default values for configuration fields.
const (
	// Export defaults
	DefaultPageSize  = int64(500)
	DefaultOutputDir = "exports"
	DefaultFormat    = "csv"
	DefaultIDColumn  = "id"

	// Source defaults
	DefaultOrderBy = "rowid"

	// Jobs defaults
	DefaultJobsFile    = "jobs.yaml"
	DefaultStepTimeout = 30 * time.Second

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:9190"
	DefaultShutdownTimeout = 10 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "skiff"
	DefaultMetricsSubsystem = "export"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills in default values for any unset configuration
// fields. It modifies the configuration in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Export.PageSize == 0 {
		cfg.Export.PageSize = DefaultPageSize
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = DefaultOutputDir
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = DefaultFormat
	}
	if cfg.Export.IDColumn == "" {
		cfg.Export.IDColumn = DefaultIDColumn
	}

	if cfg.Source.OrderBy == "" {
		cfg.Source.OrderBy = DefaultOrderBy
	}

	if cfg.Jobs.File == "" {
		cfg.Jobs.File = DefaultJobsFile
	}
	if cfg.Jobs.StepTimeout == 0 {
		cfg.Jobs.StepTimeout = DefaultStepTimeout
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
