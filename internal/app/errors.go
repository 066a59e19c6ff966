package app

import (
	"errors"
	"fmt"
)

// Driver errors.
var (
	// ErrSourceMissing indicates a stage's source document does not exist.
	ErrSourceMissing = errors.New("source document not found")

	// ErrNoStages indicates a run was requested with nothing to pack.
	ErrNoStages = errors.New("no stages selected")
)

// OperationError represents an I/O failure during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "read", "write")
	Target string // File path
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("failed to %s %s", e.Op, e.Target)
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

// WrapError wraps an error with additional context if it's not nil.
// The format string uses fmt.Sprintf verbs; wrapping is handled internally.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
