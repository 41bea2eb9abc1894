package main

import (
	"os"
	"path/filepath"
	"testing"

	"skiff-hq/skiff/pkg/config"
	"skiff-hq/skiff/pkg/runner"
	"skiff-hq/skiff/pkg/telemetry/metrics"
)

func factoryFixture(t *testing.T) (*config.Config, runner.Job) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Export.OutputDir = filepath.Join(dir, "out")

	job := runner.Job{
		Name:     "orders",
		Schedule: "@daily",
		Source: runner.JobSource{
			Path:  filepath.Join(dir, "orders.db"),
			Table: "orders",
		},
	}
	return cfg, job
}

// TestJobRunnerFactory_BuildsRunner covers the happy path.
func TestJobRunnerFactory_BuildsRunner(t *testing.T) {
	cfg, job := factoryFixture(t)
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics)

	r, err := jobRunnerFactory(cfg, collector)(job)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if r == nil {
		t.Fatal("factory returned nil runner")
	}
}

// TestJobRunnerFactory_Errors verifies the factory surfaces errors from
// every construction stage, including the ones after the source opened.
func TestJobRunnerFactory_Errors(t *testing.T) {
	collector := metrics.NewCollector(&config.DefaultConfig().Telemetry.Metrics)

	t.Run("unknown format", func(t *testing.T) {
		cfg, job := factoryFixture(t)
		job.Format = "parquet"

		if _, err := jobRunnerFactory(cfg, collector)(job); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("output dir blocked by file", func(t *testing.T) {
		cfg, job := factoryFixture(t)
		if err := os.WriteFile(cfg.Export.OutputDir, []byte("in the way"), 0o644); err != nil {
			t.Fatalf("writing blocking file: %v", err)
		}

		if _, err := jobRunnerFactory(cfg, collector)(job); err == nil {
			t.Error("expected error when output dir path is a file")
		}
	})

	t.Run("missing source config", func(t *testing.T) {
		cfg, job := factoryFixture(t)
		job.Source.Path = ""

		if _, err := jobRunnerFactory(cfg, collector)(job); err == nil {
			t.Error("expected error for missing source path")
		}
	})
}
