// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrNotReady is returned when no snapshot has been built yet. It is a
	// distinct state from a failed build: "not yet initialized" must never
	// be reported as an upstream failure.
	ErrNotReady = errors.New("no snapshot available yet")

	// ErrNoContract is returned when no option contract exists for a
	// target expiry. Retrying against the same chain cannot succeed.
	ErrNoContract = errors.New("no contract for target expiry")

	// ErrUpstreamUnavailable marks network/timeout/non-2xx failures from
	// an external data source. Retryable by the calling layer.
	ErrUpstreamUnavailable = errors.New("upstream source unavailable")

	ErrConfigInvalid = errors.New("invalid configuration")
)

// UpstreamError represents a failed call to an external data source.
type UpstreamError struct {
	Source   string // "options", "price"
	Endpoint string
	Status   int // HTTP status, 0 for transport errors
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error [%s] %s: status %d", e.Source, e.Endpoint, e.Status)
	}
	return fmt.Sprintf("upstream error [%s] %s: %v", e.Source, e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUpstreamUnavailable
}

// Is lets callers match any UpstreamError against ErrUpstreamUnavailable
// without inspecting the concrete type.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// NewUpstreamError creates a new UpstreamError.
func NewUpstreamError(source, endpoint string, status int, err error) *UpstreamError {
	return &UpstreamError{
		Source:   source,
		Endpoint: endpoint,
		Status:   status,
		Err:      err,
	}
}

// BuildError represents a failed snapshot build. A snapshot is
// all-or-nothing: if any leg fails, the whole build is abandoned and the
// previously published snapshot stays in effect.
type BuildError struct {
	Leg string // "spot", "chain", "weekly", "monthly"
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("snapshot build failed [%s]: %v", e.Leg, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// NewBuildError creates a new BuildError.
func NewBuildError(leg string, err error) *BuildError {
	return &BuildError{Leg: leg, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
