package timed

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches any *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("timed: configuration failed")
	// ErrReport matches any *ReportError via errors.Is.
	ErrReport = errors.New("timed: report failed")
	// ErrClosed is returned when reporting into a CSV sink that was closed.
	ErrClosed = errors.New("timed: sink closed")
)

// ConfigurationError means an output could not be activated.
// The store has fallen back to Off when this is returned.
type ConfigurationError struct {
	Output Output
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("timed: failed to activate output %s: %v", e.Output, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ReportError means a single sample could not be written.
// The active output is left unchanged.
type ReportError struct {
	Function string
	Path     string
	Err      error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("timed: failed to report %s to %s: %v", e.Function, e.Path, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

func (e *ReportError) Is(target error) bool { return target == ErrReport }
