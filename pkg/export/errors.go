package export

import "fmt"

// DoubleInitError indicates that initialization was invoked on an
// already-active run. This is a programming error in the caller and is
// not recoverable by the engine.
type DoubleInitError struct {
	RunID string // Run that was already initialized
}

// Error implements the error interface.
func (e *DoubleInitError) Error() string {
	return fmt.Sprintf("double init: run %s is already initialized", e.RunID)
}

// NewDoubleInitError creates a new DoubleInitError.
func NewDoubleInitError(runID string) *DoubleInitError {
	return &DoubleInitError{RunID: runID}
}

// SourceFetchError indicates that the row source failed during Count or
// Fetch. Fatal for the run; the engine performs no retries.
type SourceFetchError struct {
	Offset int64 // Page offset of the failed fetch (0 for Count failures)
	Limit  int64 // Page size of the failed fetch
	Cause  error // Underlying error
}

// Error implements the error interface.
func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source fetch error [offset=%d, limit=%d]: %v", e.Offset, e.Limit, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SourceFetchError) Unwrap() error {
	return e.Cause
}

// NewSourceFetchError creates a new SourceFetchError.
func NewSourceFetchError(offset, limit int64, cause error) *SourceFetchError {
	return &SourceFetchError{Offset: offset, Limit: limit, Cause: cause}
}

// ArtifactWriteError indicates an I/O failure while writing the header
// or appending a row to the artifact. Fatal for the run; the offset is
// not advanced, so the artifact remains in its last-valid-row state.
type ArtifactWriteError struct {
	Artifact string // Artifact name
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("artifact write error [artifact=%s]: %v", e.Artifact, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ArtifactWriteError) Unwrap() error {
	return e.Cause
}

// NewArtifactWriteError creates a new ArtifactWriteError.
func NewArtifactWriteError(artifact string, cause error) *ArtifactWriteError {
	return &ArtifactWriteError{Artifact: artifact, Cause: cause}
}

// SchemaMismatchError indicates that a fetched row's fields disagree
// with the schema captured at initialization. Fatal, since writing the
// row would silently misalign columns in the artifact.
type SchemaMismatchError struct {
	Field string // Offending field name
	RowID string // Identifier of the offending row
}

// Error implements the error interface.
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch [field=%s, row=%s]: row fields disagree with captured schema", e.Field, e.RowID)
}

// NewSchemaMismatchError creates a new SchemaMismatchError.
func NewSchemaMismatchError(field, rowID string) *SchemaMismatchError {
	return &SchemaMismatchError{Field: field, RowID: rowID}
}
