package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func testJob(name string) Job {
	return Job{
		Name:     name,
		Schedule: "0 3 * * *",
		Source: JobSource{
			Path:  "db.sqlite",
			Table: "items",
		},
	}
}

// TestScheduler_StartStop covers the basic lifecycle.
func TestScheduler_StartStop(t *testing.T) {
	var built atomic.Int64
	s := NewScheduler(func(job Job) (*Runner, error) {
		built.Add(1)
		return nil, fmt.Errorf("not expected to fire")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.IsRunning() {
		t.Error("scheduler should not be running before Start")
	}

	if err := s.Start(ctx, []Job{testJob("a"), testJob("b")}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should be running after Start")
	}

	if next := s.NextRun(); next == nil {
		t.Error("expected a next run time")
	} else if !next.After(time.Now()) {
		t.Errorf("next run %v should be in the future", next)
	}

	if err := s.Start(ctx, nil); err == nil {
		t.Error("second Start should fail")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}

	if built.Load() != 0 {
		t.Errorf("factory should not have been called, got %d", built.Load())
	}
}

// TestScheduler_RejectsInvalidJob ensures bad jobs fail Start up front.
func TestScheduler_RejectsInvalidJob(t *testing.T) {
	s := NewScheduler(func(job Job) (*Runner, error) { return nil, nil })

	job := testJob("bad")
	job.Schedule = "not a schedule"

	if err := s.Start(context.Background(), []Job{job}); err == nil {
		t.Fatal("expected Start to reject invalid schedule")
	}
	if s.IsRunning() {
		t.Error("scheduler should not be running after failed Start")
	}
}

// TestScheduler_Reload swaps the job set while running.
func TestScheduler_Reload(t *testing.T) {
	s := NewScheduler(func(job Job) (*Runner, error) { return nil, nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Reload(ctx, nil); err == nil {
		t.Error("Reload before Start should fail")
	}

	if err := s.Start(ctx, []Job{testJob("a")}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := s.Reload(ctx, []Job{testJob("a"), testJob("b")}); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should still be running after Reload")
	}

	bad := testJob("c")
	bad.Source.Path = ""
	if err := s.Reload(ctx, []Job{bad}); err == nil {
		t.Error("Reload with invalid job should fail")
	}
	if !s.IsRunning() {
		t.Error("scheduler should survive a failed Reload")
	}

	s.Stop()
}

// TestScheduler_StopsOnContextCancel verifies the scheduler shuts
// itself down when the context is cancelled.
func TestScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewScheduler(func(job Job) (*Runner, error) { return nil, nil })

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, []Job{testJob("a")}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not stop after context cancellation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
