package buffer

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry operations.
var (
	// ErrNotFound indicates the file does not exist on disk.
	ErrNotFound = errors.New("not found")

	// ErrIsDirectory indicates the path names a directory.
	ErrIsDirectory = errors.New("is a directory")

	// ErrBinaryFile indicates the file content appears to be binary.
	ErrBinaryFile = errors.New("binary file")

	// ErrTooLarge indicates the file exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrNoPath indicates the operation needs a file-backed buffer.
	ErrNoPath = errors.New("buffer has no file path")

	// ErrReadFailure indicates the file could not be read.
	ErrReadFailure = errors.New("read failure")

	// ErrWriteFailure indicates the file could not be written.
	ErrWriteFailure = errors.New("write failure")

	// ErrClosed indicates the buffer has already been closed.
	ErrClosed = errors.New("buffer closed")
)

// PathError records an operation, the path it was applied to, and the
// underlying cause.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// NewPathError creates a PathError.
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err indicates a missing file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
