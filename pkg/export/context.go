package export

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// State is the lifecycle state of an export run.
type State int

const (
	// StateActive means the run has been initialized and has work remaining.
	StateActive State = iota + 1
	// StateComplete is the terminal success state.
	StateComplete
	// StateFailed is the terminal failure state.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Run is the resumable state of one export run. A nil *Run means
// "uninitialized"; the engine creates the run lazily on the first Step.
//
// A Run and the artifact it references are owned exclusively by one
// export run. The engine mutates the run once per Step as a single
// atomic unit of work; callers must serialize Step invocations for a
// given run. Independent runs may proceed fully in parallel.
type Run struct {
	// ID is the run identifier (UUID v4), also used to derive the
	// default artifact name.
	ID string

	// Offset is the index of the next row to fetch. It advances by
	// PageSize per successful step and is always a non-negative
	// multiple of PageSize.
	Offset int64

	// PageSize is fixed for the lifetime of the run.
	PageSize int64

	// Total is the result-set size snapshot taken once at
	// initialization and never re-queried.
	Total int64

	// Processed is the count of rows written so far.
	Processed int64

	// Bytes is the number of bytes appended to the artifact so far,
	// header included.
	Bytes int64

	// Schema is the ordered field schema captured at initialization.
	Schema []string

	// Results accumulates one identifier per processed row, in
	// artifact order. Consumed by the completion summary.
	Results []string

	state        State
	artifact     Artifact
	artifactName string
}

// State returns the run's lifecycle state.
func (r *Run) State() State {
	if r == nil {
		return 0
	}
	return r.state
}

// ArtifactName returns the name of the run's output artifact.
func (r *Run) ArtifactName() string {
	return r.artifactName
}

// Progress returns the run's current progress signal.
func (r *Run) Progress() Progress {
	p := Progress{
		Done:      r.state == StateComplete,
		Processed: r.Processed,
		Total:     r.Total,
	}
	switch {
	case r.Total <= 0:
		// Zero-size result sets have no meaningful ratio; the fraction
		// is 1 once the run is complete, 0 before.
		if p.Done {
			p.Fraction = 1
		}
	default:
		p.Fraction = float64(r.Processed) / float64(r.Total)
	}
	return p
}

// Initialize produces a fresh Run: it snapshots the result-set size,
// captures the field schema, creates the output artifact (truncating
// any previous file of the same name) and writes the format header as
// the artifact's first content, flushed so that a failure on the first
// step still leaves a valid, headered artifact behind.
//
// When no schema is declared in Options, Initialize additionally
// performs a single one-row Fetch to derive it. This peek happens once
// per run, at initialization only; from then on every Step performs
// exactly one page fetch.
//
// The run argument exists only to enforce single initialization:
// passing an already-created run fails with DoubleInitError.
// Step calls Initialize exactly once per run; callers normally never
// invoke it directly.
func (e *Engine) Initialize(ctx context.Context, run *Run) (*Run, error) {
	if run != nil {
		return nil, NewDoubleInitError(run.ID)
	}

	total, err := e.source.Count(ctx)
	if err != nil {
		return nil, NewSourceFetchError(0, e.opts.PageSize, err)
	}

	schema, err := e.captureSchema(ctx, total)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	name := e.opts.ArtifactName
	if name == "" {
		name = runID + "." + e.serializer.Ext()
	}

	art, err := e.store.Create(name)
	if err != nil {
		return nil, NewArtifactWriteError(name, err)
	}

	headerBytes, err := e.writeHeader(art, schema)
	if err != nil {
		art.Close()
		return nil, err
	}

	e.logger.Info("export run initialized",
		"run_id", runID,
		"total", total,
		"page_size", e.opts.PageSize,
		"format", e.serializer.Name(),
		"artifact", art.Name(),
	)

	return &Run{
		ID:           runID,
		PageSize:     e.opts.PageSize,
		Total:        total,
		Bytes:        headerBytes,
		Schema:       schema,
		state:        StateActive,
		artifact:     art,
		artifactName: art.Name(),
	}, nil
}

// captureSchema returns the declared schema, or derives one from the
// first row of the result set. Derived schemas are sorted so that the
// column order is deterministic across runs.
func (e *Engine) captureSchema(ctx context.Context, total int64) ([]string, error) {
	if len(e.opts.Schema) > 0 {
		return e.opts.Schema, nil
	}
	if total == 0 {
		return nil, nil
	}

	rows, err := e.source.Fetch(ctx, 0, 1)
	if err != nil {
		return nil, NewSourceFetchError(0, 1, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	schema := make([]string, 0, len(rows[0]))
	for field := range rows[0] {
		schema = append(schema, field)
	}
	sort.Strings(schema)
	return schema, nil
}

// writeHeader encodes and appends the format preamble, then flushes
// it. It returns the number of header bytes written.
func (e *Engine) writeHeader(art Artifact, schema []string) (int64, error) {
	if len(schema) == 0 {
		return 0, nil
	}

	header, err := e.serializer.EncodeHeader(schema)
	if err != nil {
		return 0, NewArtifactWriteError(art.Name(), err)
	}
	if len(header) == 0 {
		return 0, nil
	}
	if err := art.Append(header); err != nil {
		return 0, NewArtifactWriteError(art.Name(), err)
	}
	if err := art.Sync(); err != nil {
		return 0, NewArtifactWriteError(art.Name(), err)
	}
	return int64(len(header)), nil
}
