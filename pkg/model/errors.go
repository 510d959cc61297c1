package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a collection or document that must exist does not
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when trying to create something that already exists
	ErrExists = errors.New("already exists")
	// ErrAccessDenied is returned when the authorization predicate rejects an operation
	ErrAccessDenied = errors.New("access denied")
	// ErrNotConnected is returned when a storage operation is invoked before Connect
	ErrNotConnected = errors.New("storage not connected")
	// ErrCanceled is returned when the operation is canceled by the caller
	ErrCanceled = errors.New("operation canceled")
)

// ValidationError reports a malformed filter or argument, caught synchronously
// at construction time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: field %q: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for field with a formatted reason.
func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation returns true if err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// BackendError wraps a native driver failure so callers can distinguish
// "data unreachable" from "no data". The original cause is preserved.
type BackendError struct {
	Op         string
	Collection string
	Err        error
}

func (e *BackendError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s on %q: %v", e.Op, e.Collection, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// WrapError wraps storage errors to model errors.
// It converts context.Canceled and context.DeadlineExceeded to ErrCanceled.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsCanceled(err) {
		return ErrCanceled
	}
	return err
}

// IsCanceled returns true if the error is due to context cancellation or
// deadline exceeded. It checks both direct context errors and wrapped errors
// (e.g., from the MongoDB driver).
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrCanceled) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "context deadline exceeded")
}
