package contract

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the pipeline.
var (
	// ErrInvalidLocator is returned when an input string is not a supported repository URL.
	ErrInvalidLocator = errors.New("invalid locator")

	// ErrAccess is returned when listing or fetching from the repository fails.
	ErrAccess = errors.New("repository access failed")
)

// InvalidLocatorError describes why a locator string was rejected.
type InvalidLocatorError struct {
	Input  string
	Reason string
}

func (e *InvalidLocatorError) Error() string {
	return fmt.Sprintf("invalid locator %q: %s", e.Input, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidLocator.
func (e *InvalidLocatorError) Unwrap() error {
	return ErrInvalidLocator
}

// AccessError wraps a failed provider operation.
// StatusCode is set when the failure came from an HTTP response.
type AccessError struct {
	Op         string // "list" or "fetch"
	Path       string
	StatusCode int
	Err        error
}

// NewAccessError wraps err for the given operation and path.
func NewAccessError(op, path string, err error) *AccessError {
	return &AccessError{Op: op, Path: path, Err: err}
}

func (e *AccessError) Error() string {
	target := e.Path
	if target == "" {
		target = "/"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: http %d: %v", e.Op, target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
}

// Unwrap lets errors.Is match both ErrAccess and the underlying cause.
func (e *AccessError) Unwrap() []error {
	return []error{ErrAccess, e.Err}
}
