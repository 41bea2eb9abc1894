// Package logging provides structured logging for Skiff on top of
// log/slog.
//
// Components obtain scoped loggers from the process default:
//
//	logger := slog.Default().With("component", "export.engine")
//
// Setup installs the configured logger as that default:
//
//	_, err := logging.Setup(logging.Config{
//	    Level:  cfg.Telemetry.Logging.Level,
//	    Format: cfg.Telemetry.Logging.Format,
//	})
//
// Supported formats are "json" (machine-readable, the default), "text"
// (logfmt-style) and "console" (text without timestamps, for
// interactive use).
package logging
