// Package errs defines the error kinds shared by the devotional components.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an addressed entity does not exist
var ErrNotFound = errors.New("not found")

// ErrPermissionDenied is returned when the notification channel refuses delivery.
// Operations that return it have already persisted their changes.
var ErrPermissionDenied = errors.New("notification permission denied")

// ValidationError reports a missing or malformed user-supplied field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps a failure of the key-value store
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStorage reports whether err is a StorageError
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
