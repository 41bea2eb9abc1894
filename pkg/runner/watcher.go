package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// JobsWatcher watches the jobs file for changes and triggers reloads.
// It debounces rapid event bursts so one editor save produces one
// reload.
type JobsWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	path     string
	debounce *debouncer

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// DefaultDebounceInterval is the quiet period required after a file
// event before a reload fires.
const DefaultDebounceInterval = 100 * time.Millisecond

// NewJobsWatcher creates a watcher for the given jobs file.
func NewJobsWatcher(path string) (*JobsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &JobsWatcher{
		watcher:  watcher,
		logger:   slog.Default().With("component", "runner.watcher"),
		path:     filepath.Clean(path),
		debounce: newDebouncer(DefaultDebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks processing file events until the context is cancelled
// or Stop is called. onReload is invoked after each debounced change
// to the jobs file.
//
// The parent directory is watched rather than the file itself, so the
// watch survives editors that replace the file by rename.
func (w *JobsWatcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.logger.Info("jobs file watcher started",
		"path", w.path,
		"debounce_ms", DefaultDebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("jobs file watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("jobs file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("jobs file event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			w.debounce.trigger(func() {
				w.logger.Info("reloading jobs file", "path", w.path)
				if err := onReload(); err != nil {
					w.logger.Error("jobs reload failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("jobs file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher, cancels any pending reload and releases the
// underlying fsnotify watcher. It closes the watcher even when Watch
// already returned on its own (for example through context
// cancellation), and is safe to call more than once.
func (w *JobsWatcher) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()

		if running {
			close(w.stopCh)
			<-w.doneCh
		}

		w.debounce.stop()

		if err := w.watcher.Close(); err != nil {
			w.stopErr = fmt.Errorf("closing watcher: %w", err)
		}
	})
	return w.stopErr
}

// shouldProcessEvent keeps only write-like events on the watched file.
func (w *JobsWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

// debouncer collapses rapid event bursts into one callback after a
// quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// trigger schedules the callback after the debounce interval,
// resetting the clock if another event arrives first.
func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
