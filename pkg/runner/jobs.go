package runner

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Job describes one scheduled export: where the rows come from, how
// they are serialized, and when the export runs.
type Job struct {
	// Name identifies the job in logs and artifact names. Required.
	Name string `yaml:"name"`

	// Schedule is a standard five-field cron expression. Required.
	Schedule string `yaml:"schedule"`

	// Format selects the serializer (csv, tsv, jsonl). Empty means
	// the configured default format.
	Format string `yaml:"format,omitempty"`

	// PageSize overrides the configured default page size when
	// positive.
	PageSize int64 `yaml:"page_size,omitempty"`

	// IDColumn names the column used to identify rows in the results
	// log. Empty means the configured default.
	IDColumn string `yaml:"id_column,omitempty"`

	// Artifact fixes the artifact name. Empty derives the name from
	// the run ID. A fixed name makes each scheduled run overwrite the
	// previous artifact.
	Artifact string `yaml:"artifact,omitempty"`

	// Source describes the SQLite row source for this job.
	Source JobSource `yaml:"source"`
}

// JobSource configures the row source of a job.
type JobSource struct {
	// Path is the SQLite database file. Required.
	Path string `yaml:"path"`

	// Table names the table to export. Required unless Query is set.
	Table string `yaml:"table,omitempty"`

	// Query is a full SELECT statement used instead of Table.
	Query string `yaml:"query,omitempty"`

	// Columns restricts the exported columns in table mode.
	Columns []string `yaml:"columns,omitempty"`

	// OrderBy is the ordering clause that makes pagination stable.
	OrderBy string `yaml:"order_by,omitempty"`
}

type jobsFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs reads and validates a jobs file. All jobs are validated
// before any is returned, so a bad entry rejects the whole file.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading jobs file: %w", err)
	}

	var f jobsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing jobs file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(f.Jobs))
	for i, job := range f.Jobs {
		if err := validateJob(job); err != nil {
			return nil, fmt.Errorf("job %d (%q): %w", i, job.Name, err)
		}
		if seen[job.Name] {
			return nil, fmt.Errorf("job %d: duplicate job name %q", i, job.Name)
		}
		seen[job.Name] = true
	}

	return f.Jobs, nil
}

func validateJob(job Job) error {
	if job.Name == "" {
		return fmt.Errorf("name is required")
	}
	if job.Schedule == "" {
		return fmt.Errorf("schedule is required")
	}
	if _, err := cron.ParseStandard(job.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", job.Schedule, err)
	}
	if job.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative, got %d", job.PageSize)
	}
	if job.Source.Path == "" {
		return fmt.Errorf("source.path is required")
	}
	if job.Source.Table == "" && job.Source.Query == "" {
		return fmt.Errorf("source requires either table or query")
	}
	return nil
}
