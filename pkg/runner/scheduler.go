package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RunnerFactory builds a fresh runner for one invocation of a job.
// Each scheduled firing gets its own runner (and therefore its own
// row source, artifact, and run state) so invocations are isolated.
type RunnerFactory func(job Job) (*Runner, error)

// Scheduler fires export jobs on their cron schedules.
type Scheduler struct {
	factory RunnerFactory
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
	jobs    []Job
}

// NewScheduler creates a scheduler that builds runners through the
// given factory.
func NewScheduler(factory RunnerFactory) *Scheduler {
	return &Scheduler{
		factory: factory,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "runner.scheduler"),
	}
}

// Start registers the jobs and begins firing them on schedule. The
// scheduler stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, jobs []Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already started")
	}

	if err := s.register(ctx, jobs); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("export scheduler started", "jobs", len(jobs))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Reload replaces the registered jobs with a new set. Running job
// invocations finish before the old schedule is discarded.
func (s *Scheduler) Reload(ctx context.Context, jobs []Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler not started")
	}

	stopped := s.cron.Stop()
	<-stopped.Done()

	s.cron = cron.New()
	if err := s.register(ctx, jobs); err != nil {
		// Keep the scheduler alive with the jobs that did register.
		s.cron.Start()
		return err
	}

	s.cron.Start()
	s.logger.Info("export schedule reloaded", "jobs", len(jobs))
	return nil
}

// register adds the jobs to the current cron instance. Callers hold
// s.mu.
func (s *Scheduler) register(ctx context.Context, jobs []Job) error {
	for _, job := range jobs {
		if err := validateJob(job); err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}

		job := job
		_, err := s.cron.AddFunc(job.Schedule, func() {
			s.runJob(ctx, job)
		})
		if err != nil {
			return fmt.Errorf("scheduling job %q: %w", job.Name, err)
		}
	}

	s.jobs = jobs
	return nil
}

// runJob executes one invocation of a job.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	s.logger.Info("starting scheduled export", "job", job.Name)

	r, err := s.factory(job)
	if err != nil {
		s.logger.Error("building runner for scheduled export failed",
			"job", job.Name,
			"error", err,
		)
		return
	}

	summary, err := r.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled export failed",
			"job", job.Name,
			"run_id", summary.RunID,
			"error", err,
		)
		return
	}

	s.logger.Info("scheduled export completed",
		"job", job.Name,
		"run_id", summary.RunID,
		"records", summary.RecordCount,
		"artifact", summary.Artifact,
	)
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("export scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the earliest next firing time across all jobs.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return &next
}
