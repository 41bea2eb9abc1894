package source

import (
	"context"
	"sync"

	"skiff-hq/skiff/pkg/export"
)

// MemorySource implements export.Source over an in-memory slice of
// rows. It is intended for tests and for embedding small result sets.
type MemorySource struct {
	mu   sync.RWMutex
	rows []export.Row
}

// NewMemorySource creates a memory source over the given rows. The
// slice is used as the backing store; callers should not mutate it
// afterwards.
func NewMemorySource(rows []export.Row) *MemorySource {
	return &MemorySource{rows: rows}
}

// Count returns the number of rows.
func (s *MemorySource) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

// Fetch returns the page of rows at offset, at most limit rows. A page
// past the end is empty, not an error.
func (s *MemorySource) Fetch(ctx context.Context, offset, limit int64) ([]export.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= int64(len(s.rows)) {
		return nil, nil
	}

	end := offset + limit
	if end > int64(len(s.rows)) {
		end = int64(len(s.rows))
	}

	page := make([]export.Row, end-offset)
	for i, row := range s.rows[offset:end] {
		// Copy each row so callers cannot mutate the backing store.
		cp := make(export.Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		page[i] = cp
	}
	return page, nil
}

// Truncate shrinks the result set to n rows. Used to exercise the
// engine's behavior when the source shrinks below its count snapshot.
func (s *MemorySource) Truncate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < len(s.rows) {
		s.rows = s.rows[:n]
	}
}
