package runner

import (
	"context"
	"log/slog"
	"time"

	"skiff-hq/skiff/pkg/cli"
	"skiff-hq/skiff/pkg/export"
	"skiff-hq/skiff/pkg/telemetry/metrics"
)

// Config contains configuration for a Runner.
type Config struct {
	// StepTimeout bounds each engine step invocation. Zero means no
	// per-step deadline.
	StepTimeout time.Duration

	// Progress receives per-step progress updates. Nil disables
	// progress reporting.
	Progress cli.ProgressReporter

	// Metrics receives run and step metrics. Nil disables metrics.
	Metrics *metrics.ExportMetrics

	// Format is the metrics label for the artifact format.
	Format string

	// Cleanup runs after the run reaches a terminal state, whether it
	// succeeded or failed. Used to release per-run resources such as
	// the source connection. Nil disables cleanup.
	Cleanup func() error
}

// Runner drives one export engine step-by-step until the engine
// reports completion, then produces the completion summary. It is the
// reference orchestrator for the export engine: it serializes Step
// invocations for the run it owns and applies a per-step deadline.
//
// The runner deliberately has no retry or backoff logic; a failed step
// fails the run. Callers wanting retries discard the run (restarting
// from scratch against a fresh artifact) under their own policy.
type Runner struct {
	engine *export.Engine
	cfg    Config
	logger *slog.Logger
}

// New creates a runner for the given engine.
func New(engine *export.Engine, cfg Config) *Runner {
	return &Runner{
		engine: engine,
		cfg:    cfg,
		logger: slog.Default().With("component", "runner"),
	}
}

// Run executes the export to completion or failure and returns the
// completion summary alongside the terminal error, if any.
//
// Cancelling the context stops the runner between steps, leaving a
// partial artifact behind; the summary then reports failure with the
// context error.
func (r *Runner) Run(ctx context.Context) (export.Summary, error) {
	var run *export.Run
	var runErr error

	if r.cfg.Cleanup != nil {
		defer func() {
			if err := r.cfg.Cleanup(); err != nil {
				r.logger.Warn("run cleanup failed", "error", err)
			}
		}()
	}

	if r.cfg.Metrics != nil {
		r.cfg.Metrics.RunStarted()
	}

	started := false
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		stepCtx := ctx
		var cancel context.CancelFunc
		if r.cfg.StepTimeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, r.cfg.StepTimeout)
		}

		stepStart := time.Now()
		before := processedRows(run)
		beforeBytes := writtenBytes(run)
		var prog export.Progress
		run, prog, runErr = r.engine.Step(stepCtx, run)
		if cancel != nil {
			cancel()
		}

		if r.cfg.Metrics != nil {
			r.cfg.Metrics.RecordStep(r.cfg.Format, time.Since(stepStart), prog.Processed-before)
			r.cfg.Metrics.RecordArtifactBytes(r.cfg.Format, writtenBytes(run)-beforeBytes)
		}

		if runErr != nil {
			if r.cfg.Progress != nil {
				r.cfg.Progress.Error(runErr)
			}
			break
		}

		if r.cfg.Progress != nil {
			if !started {
				r.cfg.Progress.Start(prog.Total)
				started = true
			}
			r.cfg.Progress.Update(prog.Processed)
		}

		if prog.Done {
			if r.cfg.Progress != nil {
				r.cfg.Progress.Finish()
			}
			break
		}
	}

	summary := export.Report(run, runErr)

	if r.cfg.Metrics != nil {
		status := "completed"
		if !summary.Success {
			status = "failed"
		}
		r.cfg.Metrics.RunFinished(status)
	}

	if summary.Success {
		r.logger.Info("export run finished",
			"run_id", summary.RunID,
			"records", summary.RecordCount,
			"artifact", summary.Artifact,
		)
	} else {
		r.logger.Error("export run failed",
			"run_id", summary.RunID,
			"records", summary.RecordCount,
			"error", summary.Error,
		)
	}

	return summary, runErr
}

func processedRows(run *export.Run) int64 {
	if run == nil {
		return 0
	}
	return run.Processed
}

func writtenBytes(run *export.Run) int64 {
	if run == nil {
		return 0
	}
	return run.Bytes
}
