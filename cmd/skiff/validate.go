package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"skiff-hq/skiff/pkg/config"
	"skiff-hq/skiff/pkg/runner"
)

var validateFlags struct {
	jobsFile string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and jobs file",
	Long: `Validate the configuration file and, when present, the jobs file
without running anything.

All problems are reported at once, so a single pass fixes them all.

Examples:
  skiff validate --config /etc/skiff/config.yaml
  skiff validate --jobs /etc/skiff/jobs.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.jobsFile, "jobs", "", "override jobs file path")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ %s: %d problem(s)\n", cfgFile, len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Printf("  - %s\n", fe.Error())
			}
			return fmt.Errorf("configuration invalid")
		}
		return err
	}
	fmt.Printf("✓ %s\n", cfgFile)

	jobsFile := cfg.Jobs.File
	if validateFlags.jobsFile != "" {
		jobsFile = validateFlags.jobsFile
	}

	jobs, err := runner.LoadJobs(jobsFile)
	if err != nil {
		fmt.Printf("✗ %s\n", jobsFile)
		return err
	}
	fmt.Printf("✓ %s: %d job(s)\n", jobsFile, len(jobs))

	return nil
}
