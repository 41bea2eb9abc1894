package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
)

// newTestDB creates a SQLite database seeded with n items.
func newTestDB(t *testing.T, n int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE items (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL
	)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	for i := 0; i < n; i++ {
		if _, err := db.Exec(`INSERT INTO items (id, name, price) VALUES (?, ?, ?)`,
			i+1, fmt.Sprintf("item-%d", i+1), float64(i)*1.5); err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return path
}

// TestSQLiteSource_Count verifies the count snapshot query.
func TestSQLiteSource_Count(t *testing.T) {
	path := newTestDB(t, 42)

	src, err := NewSQLiteSource(&SQLiteConfig{Path: path, Table: "items"})
	if err != nil {
		t.Fatalf("NewSQLiteSource() failed: %v", err)
	}
	defer src.Close()

	count, err := src.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 42 {
		t.Errorf("expected count 42, got %d", count)
	}
}

// TestSQLiteSource_FetchPagination verifies page boundaries, the short
// final page and the empty page past the end.
func TestSQLiteSource_FetchPagination(t *testing.T) {
	path := newTestDB(t, 25)

	src, err := NewSQLiteSource(&SQLiteConfig{Path: path, Table: "items"})
	if err != nil {
		t.Fatalf("NewSQLiteSource() failed: %v", err)
	}
	defer src.Close()

	page, err := src.Fetch(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(page))
	}
	if page[0]["name"] != "item-1" {
		t.Errorf("expected first row item-1, got %v", page[0]["name"])
	}

	// Short final page.
	page, err = src.Fetch(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(page) != 5 {
		t.Errorf("expected 5 rows on final page, got %d", len(page))
	}
	if page[4]["name"] != "item-25" {
		t.Errorf("expected last row item-25, got %v", page[4]["name"])
	}

	// Past the end.
	page, err = src.Fetch(context.Background(), 30, 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page past the end, got %d rows", len(page))
	}
}

// TestSQLiteSource_StableOrder verifies identical pages across repeated
// fetches of the same offset.
func TestSQLiteSource_StableOrder(t *testing.T) {
	path := newTestDB(t, 30)

	src, err := NewSQLiteSource(&SQLiteConfig{Path: path, Table: "items", OrderBy: "id"})
	if err != nil {
		t.Fatalf("NewSQLiteSource() failed: %v", err)
	}
	defer src.Close()

	first, err := src.Fetch(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	second, err := src.Fetch(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	for i := range first {
		if first[i]["id"] != second[i]["id"] {
			t.Fatalf("row %d: unstable order %v vs %v", i, first[i]["id"], second[i]["id"])
		}
	}
}

// TestSQLiteSource_QueryMode exports an arbitrary SELECT instead of a
// whole table.
func TestSQLiteSource_QueryMode(t *testing.T) {
	path := newTestDB(t, 20)

	src, err := NewSQLiteSource(&SQLiteConfig{
		Path:  path,
		Query: "SELECT id, name FROM items WHERE id > 10 ORDER BY id",
	})
	if err != nil {
		t.Fatalf("NewSQLiteSource() failed: %v", err)
	}
	defer src.Close()

	count, err := src.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 10 {
		t.Errorf("expected count 10, got %d", count)
	}

	page, err := src.Fetch(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(page))
	}
	if page[0]["id"] != int64(11) {
		t.Errorf("expected first id 11, got %v (%T)", page[0]["id"], page[0]["id"])
	}
	if _, ok := page[0]["price"]; ok {
		t.Error("expected price column to be excluded by the query")
	}
}

// TestSQLiteSource_ColumnSubset restricts exported columns in table mode.
func TestSQLiteSource_ColumnSubset(t *testing.T) {
	path := newTestDB(t, 5)

	src, err := NewSQLiteSource(&SQLiteConfig{
		Path:    path,
		Table:   "items",
		Columns: []string{"id", "name"},
	})
	if err != nil {
		t.Fatalf("NewSQLiteSource() failed: %v", err)
	}
	defer src.Close()

	page, err := src.Fetch(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	for _, row := range page {
		if len(row) != 2 {
			t.Fatalf("expected 2 columns, got %d: %v", len(row), row)
		}
		if _, ok := row["price"]; ok {
			t.Fatal("expected price column to be excluded")
		}
	}
}

// TestSQLiteSource_InvalidConfig verifies constructor validation.
func TestSQLiteSource_InvalidConfig(t *testing.T) {
	if _, err := NewSQLiteSource(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewSQLiteSource(&SQLiteConfig{Table: "items"}); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewSQLiteSource(&SQLiteConfig{Path: "x.db"}); err == nil {
		t.Error("expected error for missing table and query")
	}
}
