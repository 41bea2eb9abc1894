package export

import (
	"context"
	"fmt"
)

// Row is a single result row keyed by field name. Values are scalars
// (string, bool, integer, float, nil); serializers are responsible for
// rendering them in the target format.
type Row map[string]any

// ID returns the row's identifier using the given identifier column.
// If the column is absent from the row, the zero-based ordinal position
// within the run is used instead.
func (r Row) ID(idColumn string, ordinal int64) string {
	if idColumn != "" {
		if v, ok := r[idColumn]; ok {
			return fmt.Sprintf("%v", v)
		}
	}
	return fmt.Sprintf("%d", ordinal)
}

// Source supplies pages of rows for an export run.
//
// Fetch must be a pure function of (offset, limit) over a result set
// reasonably consistent with the snapshot returned by Count. If the
// underlying set mutates mid-run, rows may shift between pages; the
// engine does not reconcile this (see package documentation).
// Implementations must be safe for use by independent concurrent runs.
type Source interface {
	// Count returns the authoritative size of the result set.
	Count(ctx context.Context) (int64, error)

	// Fetch returns the page of rows starting at offset, at most limit
	// rows. A short (or empty) page past the end is not an error.
	Fetch(ctx context.Context, offset, limit int64) ([]Row, error)
}

// Serializer encodes rows into the target file format. Each call returns
// one self-contained encoded unit (for example one delimited line) that
// the engine appends to the artifact, so a crash mid-run loses at most
// the in-flight row.
type Serializer interface {
	// Name is the format identifier ("csv", "tsv", "jsonl").
	Name() string

	// Ext is the artifact filename extension, without the leading dot.
	Ext() string

	// EncodeHeader encodes the format preamble for the given schema.
	// A nil return with no error means the format has no preamble.
	EncodeHeader(schema []string) ([]byte, error)

	// EncodeRow encodes one row in schema field order.
	EncodeRow(schema []string, row Row) ([]byte, error)
}

// Artifact is the append-only output target for one run. It is
// single-writer for the lifetime of the run.
type Artifact interface {
	// Name identifies the artifact (for file stores, its path).
	Name() string

	// Append writes p to the artifact.
	Append(p []byte) error

	// Sync flushes appended bytes to stable storage.
	Sync() error

	// Close releases the artifact handle. The artifact itself persists
	// as the export deliverable.
	Close() error
}

// Store creates artifacts. Create truncates any pre-existing artifact
// with the same name so a run never appends to a previous run's output.
type Store interface {
	Create(name string) (Artifact, error)
}

// Progress is the per-step signal returned to the orchestrator.
type Progress struct {
	// Done reports that no further Step invocation is needed.
	Done bool `json:"done"`

	// Fraction is the completion fraction in [0, 1].
	Fraction float64 `json:"fraction"`

	// Processed is the number of rows written so far.
	Processed int64 `json:"processed"`

	// Total is the result-set size snapshot taken at initialization.
	Total int64 `json:"total"`
}

// Summary is the completion report produced once per run, after the run
// reaches its terminal state.
type Summary struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// Success reports whether the run completed without error.
	Success bool `json:"success"`

	// RecordCount is the number of records written to the artifact.
	RecordCount int64 `json:"record_count"`

	// Artifact is the name of the produced artifact.
	Artifact string `json:"artifact"`

	// RowIDs lists the identifiers of the exported rows, in artifact order.
	RowIDs []string `json:"row_ids,omitempty"`

	// Error is the failure message for unsuccessful runs.
	Error string `json:"error,omitempty"`
}

// String renders the summary as a human-readable completion message.
func (s Summary) String() string {
	if s.Success {
		return fmt.Sprintf("exported %d records to %s", s.RecordCount, s.Artifact)
	}
	return fmt.Sprintf("export failed after %d records: %s", s.RecordCount, s.Error)
}
