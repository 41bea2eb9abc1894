package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFileStore_CreateAppendClose covers the basic artifact lifecycle.
func TestFileStore_CreateAppendClose(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	art, err := store.Create("run-1.csv")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := art.Append([]byte("a,b\n")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := art.Append([]byte("1,2\n")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := art.Sync(); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if err := art.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(art.Name())
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("expected %q, got %q", "a,b\n1,2\n", string(data))
	}
}

// TestFileStore_CreateTruncates verifies a new run never appends to a
// previous run's file.
func TestFileStore_CreateTruncates(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	stale := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(stale, []byte("old,run,data\n"), 0o644); err != nil {
		t.Fatalf("failed to seed stale file: %v", err)
	}

	art, err := store.Create("export.csv")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := art.Append([]byte("fresh\n")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := art.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(stale)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if string(data) != "fresh\n" {
		t.Errorf("expected stale content truncated, got %q", string(data))
	}
}

// TestFileStore_InvalidNames rejects empty and path-traversing names.
func TestFileStore_InvalidNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	for _, name := range []string{"", "../escape.csv", "sub/dir.csv", `back\slash.csv`} {
		if _, err := store.Create(name); err == nil {
			t.Errorf("Create(%q): expected error, got nil", name)
		}
		if err := store.Remove(name); err == nil {
			t.Errorf("Remove(%q): expected error, got nil", name)
		}
	}
}

// TestFileStore_Remove deletes a created artifact.
func TestFileStore_Remove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	art, err := store.Create("doomed.csv")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := art.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if err := store.Remove("doomed.csv"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := os.Stat(art.Name()); !os.IsNotExist(err) {
		t.Error("expected artifact to be deleted")
	}
}

// TestFileStore_CreatesDirectory verifies the store creates its root
// directory on demand.
func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	if store.Dir() != dir {
		t.Errorf("expected dir %q, got %q", dir, store.Dir())
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected directory to exist, err=%v", err)
	}

	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty directory")
	}
}
