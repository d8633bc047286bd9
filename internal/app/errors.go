package app

import (
	"errors"
	"fmt"
)

// Workbench errors.
var (
	// ErrUserCancelled indicates the user cancelled a confirmation or
	// chooser dialog. Operations that see it stop cleanly.
	ErrUserCancelled = errors.New("cancelled by user")

	// ErrNoActiveBuffer indicates no buffer is currently selected.
	ErrNoActiveBuffer = errors.New("no active buffer")

	// ErrBufferNotFound indicates the addressed tab or buffer is gone.
	ErrBufferNotFound = errors.New("buffer not found")

	// ErrInvalidOperation indicates an operation that cannot be
	// performed on the target buffer.
	ErrInvalidOperation = errors.New("invalid operation")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op      string // Operation name (e.g., "save", "open", "close")
	Target  string // Target of the operation (e.g., file path, buffer name)
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	} else {
		msg = e.Op
	}

	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
