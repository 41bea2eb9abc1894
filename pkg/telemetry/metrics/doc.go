// Package metrics provides Prometheus metrics for Skiff.
//
// The Collector owns a dedicated registry carrying the Go runtime and
// process collectors plus the export metrics:
//
//   - skiff_export_runs_total (by terminal status)
//   - skiff_export_active_runs
//   - skiff_export_rows_total (by format)
//   - skiff_export_step_duration_seconds (by format)
//   - skiff_export_artifact_bytes_total (by format)
//
// Serve-mode mounts Collector.Handler at the configured metrics path.
package metrics
