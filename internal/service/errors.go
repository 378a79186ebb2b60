package service

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested product, presentation or stored
// file does not exist. It is an expected outcome; the boundary maps it to 404.
var ErrNotFound = errors.New("not found")

// ValidationError carries the field-level messages that rejected a draft
// before any persistence call. The boundary maps it to 400 and surfaces the
// messages verbatim.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// PersistenceError wraps an unexpected backing-store or attachment I/O
// failure. Its message carries a safe summary plus the most specific
// underlying cause, never a stack trace; the full chain stays available via
// Unwrap for internal logging.
type PersistenceError struct {
	cause error
}

func (e *PersistenceError) Error() string {
	return "persistence failure, most likely cause: " + mostSpecificCause(e.cause).Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.cause
}

// mostSpecificCause walks the wrap chain to the innermost error.
func mostSpecificCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
