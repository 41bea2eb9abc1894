// Package artifact provides artifact stores for the export engine.
//
// An artifact is the output file being incrementally built by a run.
// Stores create artifacts with truncate-on-create semantics: a new run
// never appends to a previous run's file, so a retried export can never
// produce a corrupt union of two runs.
//
// FileStore is the file-backed implementation; it manages a flat output
// directory and resolves caller-assigned artifact names (typically
// "<run-id>.<ext>") against it.
package artifact
