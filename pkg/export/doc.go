// Package export implements a resumable, batched export engine: it
// writes a large queryable result set to a downloadable artifact
// without ever holding the full set in memory or exceeding a single
// invocation's time budget.
//
// # Architecture
//
// The engine is a step-at-a-time state machine driven by an external
// orchestrator:
//
//	Orchestrator → Engine.Step → (Source.Fetch → Serializer → Artifact)
//	     ↑                                                      |
//	     └────────────── Progress{done, fraction} ──────────────┘
//
// Each Step performs exactly one page fetch and one batch of appends,
// then reports a completion fraction. The one exception is the first
// Step of a run with no declared schema: initialization adds a single
// bounded one-row fetch to derive the schema before the first page.
//
// The orchestrator keeps invoking Step until Progress.Done is true,
// then builds the completion summary with Report. A run moves through
// the states
//
//	UNINITIALIZED (nil *Run) → ACTIVE → COMPLETE
//	                              └───→ FAILED
//
// where both COMPLETE and FAILED are terminal.
//
// # Snapshot semantics
//
// The result-set size is snapshotted once, at initialization, and never
// re-queried, so a run is internally consistent even if the source
// mutates mid-export. If the source grows, rows beyond the snapshot are
// not exported; if it shrinks, the run completes when the source is
// exhausted. Fetch is expected to be a pure function of (offset, limit)
// over a reasonably stable view of the data.
//
// # Basic usage
//
//	engine, err := export.New(source, format.NewCSV(), store, export.Options{
//		PageSize: 500,
//		IDColumn: "id",
//	})
//	if err != nil {
//		return err
//	}
//
//	var run *export.Run
//	for {
//		var prog export.Progress
//		run, prog, err = engine.Step(ctx, run)
//		if err != nil || prog.Done {
//			break
//		}
//	}
//	summary := export.Report(run, err)
//
// # Failure semantics
//
// Any source or artifact failure is fatal for the run: the run
// transitions to FAILED, the offset is not advanced, and the artifact
// is closed in its last-valid-row state (never mid-row). The engine
// performs no retries; retry policy belongs to the orchestrator, which
// keeps the state machine simple and testable in isolation.
//
// # Concurrency
//
// A run and its artifact are owned by exactly one export; Step calls
// for the same run must be serialized by the caller. Independent runs
// share no mutable state and may proceed fully in parallel.
package export
