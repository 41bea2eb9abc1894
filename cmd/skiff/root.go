package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "skiff",
	Short: "Skiff - resumable chunked data exports",
	Long: `Skiff exports rows from a database into flat artifacts one page at a
time, so large exports survive observation, scheduling, and failure
without holding the whole result set in memory.

It provides:
  - Page-at-a-time export of SQLite tables and queries
  - CSV, TSV, and JSON Lines artifact formats
  - Cron-scheduled recurring exports from a jobs file
  - Progress reporting and Prometheus metrics`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
