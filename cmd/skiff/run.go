package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"skiff-hq/skiff/pkg/cli"
	"skiff-hq/skiff/pkg/config"
	"skiff-hq/skiff/pkg/export"
	"skiff-hq/skiff/pkg/export/artifact"
	"skiff-hq/skiff/pkg/export/format"
	"skiff-hq/skiff/pkg/export/source"
	"skiff-hq/skiff/pkg/runner"
	"skiff-hq/skiff/pkg/telemetry/logging"
)

var runFlags struct {
	dbPath       string
	table        string
	query        string
	columns      []string
	orderBy      string
	formatName   string
	outputDir    string
	pageSize     int64
	idColumn     string
	artifactName string
	output       string
	noProgress   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a one-shot export",
	Long: `Run a single export to completion and print a completion summary.

Rows are read from a SQLite database one page at a time and appended to
an artifact in the output directory. Values not given as flags fall
back to the configuration file and built-in defaults.

Examples:
  # Export a table to CSV
  skiff run --db orders.db --table orders

  # Export a query as JSON Lines with a fixed artifact name
  skiff run --db orders.db --query "SELECT id, total FROM orders" \
    --format jsonl --artifact orders.jsonl

  # Machine-readable summary
  skiff run --db orders.db --table orders --output json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.dbPath, "db", "", "SQLite database file")
	runCmd.Flags().StringVar(&runFlags.table, "table", "", "table to export")
	runCmd.Flags().StringVar(&runFlags.query, "query", "", "SELECT statement to export instead of a table")
	runCmd.Flags().StringSliceVar(&runFlags.columns, "columns", nil, "columns to export in table mode")
	runCmd.Flags().StringVar(&runFlags.orderBy, "order-by", "", "ordering clause for stable pagination")
	runCmd.Flags().StringVarP(&runFlags.formatName, "format", "f", "", "artifact format (csv, tsv, jsonl)")
	runCmd.Flags().StringVarP(&runFlags.outputDir, "out", "o", "", "artifact output directory")
	runCmd.Flags().Int64Var(&runFlags.pageSize, "page-size", 0, "rows per export step")
	runCmd.Flags().StringVar(&runFlags.idColumn, "id-column", "", "row field recorded as the row identifier")
	runCmd.Flags().StringVar(&runFlags.artifactName, "artifact", "", "fixed artifact file name")
	runCmd.Flags().StringVar(&runFlags.output, "output", "text", "summary output format (text, json)")
	runCmd.Flags().BoolVar(&runFlags.noProgress, "no-progress", false, "disable the progress bar")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigOrDefaults()
	if err != nil {
		return err
	}
	applyRunFlags(cfg)

	// Logs go to stderr so the summary on stdout stays clean.
	logLevel := "warn"
	if verbose {
		logLevel = "debug"
	}
	if _, err := logging.Setup(logging.Config{
		Level:  logLevel,
		Format: "console",
		Writer: os.Stderr,
	}); err != nil {
		return err
	}

	if cfg.Source.Path == "" {
		return fmt.Errorf("no database given: set --db or source.path in the config file")
	}
	if cfg.Source.Table == "" && cfg.Source.Query == "" {
		return fmt.Errorf("nothing to export: set --table or --query")
	}

	src, err := source.NewSQLiteSource(&source.SQLiteConfig{
		Path:    cfg.Source.Path,
		Table:   cfg.Source.Table,
		Query:   cfg.Source.Query,
		Columns: cfg.Source.Columns,
		OrderBy: cfg.Source.OrderBy,
	})
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer src.Close()

	serializer, err := format.New(cfg.Export.Format)
	if err != nil {
		return err
	}

	store, err := artifact.NewFileStore(cfg.Export.OutputDir)
	if err != nil {
		return fmt.Errorf("preparing output directory: %w", err)
	}

	eng, err := export.New(src, serializer, store, export.Options{
		PageSize:     cfg.Export.PageSize,
		Schema:       cfg.Export.Schema,
		IDColumn:     cfg.Export.IDColumn,
		ArtifactName: runFlags.artifactName,
	})
	if err != nil {
		return err
	}

	var progress cli.ProgressReporter = cli.NopProgress{}
	if !runFlags.noProgress && runFlags.output == "text" {
		progress = cli.NewProgressReporter(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(eng, runner.Config{
		StepTimeout: cfg.Jobs.StepTimeout,
		Progress:    progress,
		Format:      serializer.Name(),
	})

	summary, runErr := r.Run(ctx)

	formatter, err := cli.NewFormatter(cli.OutputFormat(runFlags.output))
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, summary); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("export failed: %w", runErr)
	}
	return nil
}

// loadConfigOrDefaults loads the config file, tolerating a missing
// file at the default location.
func loadConfigOrDefaults() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
		return config.DefaultConfig(), nil
	}
	return nil, err
}

// applyRunFlags overlays command-line flags onto the loaded config.
func applyRunFlags(cfg *config.Config) {
	if runFlags.dbPath != "" {
		cfg.Source.Path = runFlags.dbPath
	}
	if runFlags.table != "" {
		cfg.Source.Table = runFlags.table
	}
	if runFlags.query != "" {
		cfg.Source.Query = runFlags.query
	}
	if len(runFlags.columns) > 0 {
		cfg.Source.Columns = runFlags.columns
	}
	if runFlags.orderBy != "" {
		cfg.Source.OrderBy = runFlags.orderBy
	}
	if runFlags.formatName != "" {
		cfg.Export.Format = runFlags.formatName
	}
	if runFlags.outputDir != "" {
		cfg.Export.OutputDir = runFlags.outputDir
	}
	if runFlags.pageSize > 0 {
		cfg.Export.PageSize = runFlags.pageSize
	}
	if runFlags.idColumn != "" {
		cfg.Export.IDColumn = runFlags.idColumn
	}
}
