package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"skiff-hq/skiff/pkg/cli"
	"skiff-hq/skiff/pkg/config"
	"skiff-hq/skiff/pkg/export"
	"skiff-hq/skiff/pkg/export/artifact"
	"skiff-hq/skiff/pkg/export/format"
	"skiff-hq/skiff/pkg/export/source"
	"skiff-hq/skiff/pkg/runner"
	"skiff-hq/skiff/pkg/telemetry/logging"
	"skiff-hq/skiff/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	jobsFile      string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled exports from a jobs file",
	Long: `Run the export scheduler as a long-lived process.

Jobs are read from the configured jobs file and fired on their cron
schedules, each invocation producing a fresh artifact. When watching is
enabled, edits to the jobs file are picked up without a restart.

The HTTP endpoint serves /healthz and, when metrics are enabled, the
Prometheus exposition at the configured metrics path.

Examples:
  # Start with the default config
  skiff serve

  # Start with a custom config and jobs file
  skiff serve --config /etc/skiff/config.yaml --jobs /etc/skiff/jobs.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlags.jobsFile, "jobs", "", "override jobs file path")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.jobsFile != "" {
		cfg.Jobs.File = serveFlags.jobsFile
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return err
	}

	jobs, err := runner.LoadJobs(cfg.Jobs.File)
	if err != nil {
		return fmt.Errorf("loading jobs: %w", err)
	}
	if len(jobs) == 0 {
		logger.Warn("jobs file declares no jobs", "path", cfg.Jobs.File)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := runner.NewScheduler(jobRunnerFactory(cfg, collector))
	if err := scheduler.Start(ctx, jobs); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	var watcher *runner.JobsWatcher
	if cfg.Jobs.Watch {
		watcher, err = runner.NewJobsWatcher(cfg.Jobs.File)
		if err != nil {
			return fmt.Errorf("creating jobs watcher: %w", err)
		}
		go func() {
			err := watcher.Watch(ctx, func() error {
				jobs, err := runner.LoadJobs(cfg.Jobs.File)
				if err != nil {
					return err
				}
				return scheduler.Reload(ctx, jobs)
			})
			if err != nil {
				logger.Error("jobs watcher exited", "error", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	if cfg.Telemetry.Metrics.MetricsEnabled() {
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
	}

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddress,
		Handler: mux,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "address", cfg.Server.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	logger.Info("skiff started",
		"version", Version,
		"jobs", len(jobs),
		"jobs_file", cfg.Jobs.File,
		"watch", cfg.Jobs.Watch,
	)
	if next := scheduler.NextRun(); next != nil {
		logger.Info("next scheduled export", "at", next.Format(time.RFC3339))
	}

	select {
	case err := <-serverErr:
		stop()
		scheduler.Stop()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}

	scheduler.Stop()
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logger.Error("stopping jobs watcher failed", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// jobRunnerFactory builds a fresh runner per scheduled invocation so
// each firing gets its own source connection and artifact.
func jobRunnerFactory(cfg *config.Config, collector *metrics.Collector) runner.RunnerFactory {
	return func(job runner.Job) (*runner.Runner, error) {
		src, err := source.NewSQLiteSource(&source.SQLiteConfig{
			Path:    job.Source.Path,
			Table:   job.Source.Table,
			Query:   job.Source.Query,
			Columns: job.Source.Columns,
			OrderBy: job.Source.OrderBy,
		})
		if err != nil {
			return nil, fmt.Errorf("opening source for job %q: %w", job.Name, err)
		}

		formatName := job.Format
		if formatName == "" {
			formatName = cfg.Export.Format
		}
		serializer, err := format.New(formatName)
		if err != nil {
			src.Close()
			return nil, err
		}

		store, err := artifact.NewFileStore(cfg.Export.OutputDir)
		if err != nil {
			src.Close()
			return nil, err
		}

		pageSize := job.PageSize
		if pageSize <= 0 {
			pageSize = cfg.Export.PageSize
		}
		idColumn := job.IDColumn
		if idColumn == "" {
			idColumn = cfg.Export.IDColumn
		}

		eng, err := export.New(src, serializer, store, export.Options{
			PageSize:     pageSize,
			IDColumn:     idColumn,
			ArtifactName: job.Artifact,
		})
		if err != nil {
			src.Close()
			return nil, err
		}

		return runner.New(eng, runner.Config{
			StepTimeout: cfg.Jobs.StepTimeout,
			Progress:    cli.NopProgress{},
			Metrics:     collector.Export,
			Format:      serializer.Name(),
			Cleanup:     src.Close,
		}), nil
	}
}
