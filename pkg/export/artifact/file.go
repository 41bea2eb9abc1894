package artifact

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"skiff-hq/skiff/pkg/export"
)

// FileStore creates export artifacts as files in a managed directory.
// Artifact names are flat (no path separators); the store resolves them
// against its directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a file-backed artifact store rooted at dir,
// creating the directory if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact: directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: failed to create directory %q: %w", dir, err)
	}

	return &FileStore{
		dir:    dir,
		logger: slog.Default().With("component", "export.artifact"),
	}, nil
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Create opens a fresh artifact file, truncating any pre-existing file
// of the same name so a run never appends to a previous run's output.
func (s *FileStore) Create(name string) (export.Artifact, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("artifact: invalid artifact name %q", name)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("artifact: failed to create %q: %w", path, err)
	}

	s.logger.Debug("artifact created", "path", path)
	return &fileArtifact{f: f, path: path}, nil
}

// Remove deletes a previously created artifact, for callers that clean
// up after an abandoned or failed run.
func (s *FileStore) Remove(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("artifact: invalid artifact name %q", name)
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// fileArtifact is an append-only file handle implementing export.Artifact.
type fileArtifact struct {
	f    *os.File
	path string
}

// Name returns the artifact's file path.
func (a *fileArtifact) Name() string {
	return a.path
}

// Append writes p to the file.
func (a *fileArtifact) Append(p []byte) error {
	_, err := a.f.Write(p)
	return err
}

// Sync flushes written bytes to stable storage.
func (a *fileArtifact) Sync() error {
	return a.f.Sync()
}

// Close releases the file handle. The file persists on disk.
func (a *fileArtifact) Close() error {
	return a.f.Close()
}
