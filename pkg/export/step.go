package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrRunFinished is returned by Step when invoked on a run that has
// already reached a terminal state.
var ErrRunFinished = errors.New("export: run already finished")

// Options configures an export engine.
type Options struct {
	// PageSize is the number of rows fetched and written per step.
	// Must be greater than zero.
	PageSize int64

	// Schema declares the field schema up front. If empty, the schema
	// is derived from the first row of the result set at
	// initialization, with fields in sorted order.
	Schema []string

	// IDColumn names the row field used as the row identifier in the
	// results log. If empty, or absent from a row, the row's ordinal
	// position within the run is used.
	IDColumn string

	// ArtifactName overrides the default artifact name
	// ("<run-id>.<ext>").
	ArtifactName string
}

// Engine is the batched export engine. It partitions a result set into
// fixed-size pages and, on each Step invocation, performs exactly one
// bounded unit of work: one page fetch plus one batch of appends to the
// output artifact.
//
// The engine never spawns goroutines and never retries; retry and
// backoff policy belongs to the orchestrator driving it.
type Engine struct {
	source     Source
	serializer Serializer
	store      Store
	opts       Options
	logger     *slog.Logger
}

// New creates an export engine for the given source, serializer and
// artifact store.
func New(source Source, serializer Serializer, store Store, opts Options) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("export: source is required")
	}
	if serializer == nil {
		return nil, fmt.Errorf("export: serializer is required")
	}
	if store == nil {
		return nil, fmt.Errorf("export: artifact store is required")
	}
	if opts.PageSize <= 0 {
		return nil, fmt.Errorf("export: page size must be positive, got %d", opts.PageSize)
	}

	return &Engine{
		source:     source,
		serializer: serializer,
		store:      store,
		opts:       opts,
		logger:     slog.Default().With("component", "export.engine"),
	}, nil
}

// Step performs one bounded unit of work and returns the (possibly
// newly created) run together with its progress signal.
//
// A nil run starts a new export run: the engine snapshots the result
// set size, creates the artifact and writes the header before doing any
// row work. Callers pass the returned run to every subsequent Step and
// stop invoking Step once Progress.Done is true.
//
// On failure the run transitions to StateFailed, the offset is not
// advanced, and the artifact is closed in its last-valid-row state.
func (e *Engine) Step(ctx context.Context, run *Run) (*Run, Progress, error) {
	if run == nil {
		var err error
		run, err = e.Initialize(ctx, nil)
		if err != nil {
			return nil, Progress{}, err
		}
	}

	switch run.state {
	case StateComplete, StateFailed:
		return run, run.Progress(), ErrRunFinished
	}

	// A run whose snapshot is already satisfied (zero-size result set,
	// or a source that shrank mid-run) completes without fetching.
	if run.Processed >= run.Total {
		if err := e.finish(run); err != nil {
			return run, run.Progress(), err
		}
		return run, run.Progress(), nil
	}

	rows, err := e.source.Fetch(ctx, run.Offset, run.PageSize)
	if err != nil {
		e.fail(run)
		return run, run.Progress(), NewSourceFetchError(run.Offset, run.PageSize, err)
	}

	if len(rows) == 0 {
		// The source is exhausted before the snapshot was reached: the
		// result set shrank mid-run. Complete rather than loop forever
		// against an unreachable total.
		e.logger.Warn("source exhausted below count snapshot",
			"run_id", run.ID,
			"processed", run.Processed,
			"total", run.Total,
		)
		if err := e.finish(run); err != nil {
			return run, run.Progress(), err
		}
		p := run.Progress()
		p.Done = true
		return run, p, nil
	}

	for _, row := range rows {
		rowID := row.ID(e.opts.IDColumn, run.Processed)

		if field, ok := matchesSchema(run.Schema, row); !ok {
			e.fail(run)
			return run, run.Progress(), NewSchemaMismatchError(field, rowID)
		}

		encoded, err := e.serializer.EncodeRow(run.Schema, row)
		if err != nil {
			e.fail(run)
			return run, run.Progress(), NewArtifactWriteError(run.artifactName, err)
		}
		if err := run.artifact.Append(encoded); err != nil {
			e.fail(run)
			return run, run.Progress(), NewArtifactWriteError(run.artifactName, err)
		}

		run.Results = append(run.Results, rowID)
		run.Processed++
		run.Bytes += int64(len(encoded))
	}

	if err := run.artifact.Sync(); err != nil {
		e.fail(run)
		return run, run.Progress(), NewArtifactWriteError(run.artifactName, err)
	}

	// Advance by the full page size, not by rows returned, so a short
	// final page still moves the offset past the end of the set.
	run.Offset += run.PageSize

	if run.Processed >= run.Total {
		if err := e.finish(run); err != nil {
			return run, run.Progress(), err
		}
	}

	p := run.Progress()
	e.logger.Debug("export step completed",
		"run_id", run.ID,
		"offset", run.Offset,
		"processed", run.Processed,
		"total", run.Total,
		"done", p.Done,
	)
	return run, p, nil
}

// matchesSchema reports whether the row carries exactly the captured
// schema fields. It returns the first offending field on mismatch.
func matchesSchema(schema []string, row Row) (string, bool) {
	for _, field := range schema {
		if _, ok := row[field]; !ok {
			return field, false
		}
	}
	if len(row) != len(schema) {
		known := make(map[string]struct{}, len(schema))
		for _, field := range schema {
			known[field] = struct{}{}
		}
		for field := range row {
			if _, ok := known[field]; !ok {
				return field, false
			}
		}
	}
	return "", true
}

// finish transitions the run to StateComplete and releases the
// artifact handle. The artifact itself persists as the deliverable.
func (e *Engine) finish(run *Run) error {
	if err := run.artifact.Sync(); err != nil {
		e.fail(run)
		return NewArtifactWriteError(run.artifactName, err)
	}
	if err := run.artifact.Close(); err != nil {
		run.state = StateFailed
		return NewArtifactWriteError(run.artifactName, err)
	}
	run.state = StateComplete

	e.logger.Info("export run complete",
		"run_id", run.ID,
		"records", run.Processed,
		"artifact", run.artifactName,
	)
	return nil
}

// fail transitions the run to StateFailed, closing the artifact so it
// remains on disk in its last-valid-row state.
func (e *Engine) fail(run *Run) {
	run.state = StateFailed
	if err := run.artifact.Close(); err != nil {
		e.logger.Warn("failed to close artifact for failed run",
			"run_id", run.ID,
			"artifact", run.artifactName,
			"error", err,
		)
	}
}
