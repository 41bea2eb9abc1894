package source

import (
	"context"
	"fmt"
	"testing"

	"skiff-hq/skiff/pkg/export"
)

func memRows(n int) []export.Row {
	rows := make([]export.Row, n)
	for i := range rows {
		rows[i] = export.Row{"id": i, "name": fmt.Sprintf("row-%d", i)}
	}
	return rows
}

// TestMemorySource_CountAndFetch covers paging over the in-memory set.
func TestMemorySource_CountAndFetch(t *testing.T) {
	src := NewMemorySource(memRows(23))

	count, err := src.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 23 {
		t.Errorf("expected count 23, got %d", count)
	}

	page, err := src.Fetch(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(page) != 3 {
		t.Errorf("expected 3 rows on final page, got %d", len(page))
	}

	page, err = src.Fetch(context.Background(), 23, 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page past the end, got %d rows", len(page))
	}
}

// TestMemorySource_FetchCopiesRows verifies callers cannot mutate the
// backing store through a fetched page.
func TestMemorySource_FetchCopiesRows(t *testing.T) {
	src := NewMemorySource(memRows(3))

	page, err := src.Fetch(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	page[0]["name"] = "mutated"

	again, err := src.Fetch(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if again[0]["name"] != "row-0" {
		t.Errorf("backing store was mutated: %v", again[0]["name"])
	}
}

// TestMemorySource_Truncate shrinks the set mid-run.
func TestMemorySource_Truncate(t *testing.T) {
	src := NewMemorySource(memRows(10))
	src.Truncate(4)

	count, err := src.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 4 {
		t.Errorf("expected count 4 after truncate, got %d", count)
	}
}
