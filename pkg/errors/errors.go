// Package errors holds the error types reported by the scenario loader and
// the command line surface.
package errors

import (
	"fmt"
	"strings"
)

// ParseError represents a scenario document that could not be rendered or
// decoded, with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures a scenario field that failed validation.
type ValidationError struct {
	Path    string
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// WithPath returns a copy of the error attributed to the scenario file path.
func (e *ValidationError) WithPath(path string) *ValidationError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Path = path
	return &clone
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("validation error: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a failed scenario run.
type ExecutionError struct {
	Scenario string
	Path     string
	Err      error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(scenario, path string, err error) error {
	return &ExecutionError{Scenario: scenario, Path: path, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Scenario != "" && e.Path != "":
		return fmt.Sprintf("execution error in scenario %s (%s): %v", e.Scenario, e.Path, e.Err)
	case e.Scenario != "":
		return fmt.Sprintf("execution error in scenario %s: %v", e.Scenario, e.Err)
	default:
		return fmt.Sprintf("execution error: %v", e.Err)
	}
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
