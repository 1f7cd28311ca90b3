package service

import (
	"errors"
	"fmt"
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for
// generating a unique short code is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

// ValidationError reports rejected input and identifies the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError is returned when a short code cannot be resolved. It carries
// the queried code for diagnostics.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("short code not found: %s", e.URL)
}

// StorageError wraps a store failure that is not otherwise classified. The
// original cause is preserved for diagnostics.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
