package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ErrorCode identifies well-known domain error categories raised while
// decoding scenarios and executing their steps.
type ErrorCode string

const (
	ErrCodeUnknownActionKind ErrorCode = "UNKNOWN_ACTION_KIND"
	ErrCodeNoHandler         ErrorCode = "NO_HANDLER_FOR_ACTION"
	ErrCodeAssertion         ErrorCode = "ASSERTION_FAILURE"
	ErrCodeBackend           ErrorCode = "BACKEND_OPERATION_FAILURE"
	ErrCodeUnknownInput      ErrorCode = "UNKNOWN_INPUT"
	ErrCodeUnknownBackend    ErrorCode = "UNKNOWN_BACKEND"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissing           ErrorCode = "MISSING_REQUIRED"
	ErrCodeSkipped           ErrorCode = "SCENARIO_SKIPPED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. A sentinel matches any DomainError that
// carries the same code.
var (
	ErrUnknownActionKind = &DomainError{Code: ErrCodeUnknownActionKind}
	ErrNoHandler         = &DomainError{Code: ErrCodeNoHandler}
	ErrAssertionFailure  = &DomainError{Code: ErrCodeAssertion}
	ErrBackendOperation  = &DomainError{Code: ErrCodeBackend}
	ErrUnknownInput      = &DomainError{Code: ErrCodeUnknownInput}
	ErrUnknownBackend    = &DomainError{Code: ErrCodeUnknownBackend}
	ErrScenarioSkipped   = &DomainError{Code: ErrCodeSkipped}
)

// DomainError represents a typed error enriched with contextual data.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := string(e.Code)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another DomainError with the same code. A target without a
// message matches every message.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if !errors.As(target, &domainErr) || e == nil || domainErr == nil {
		return false
	}
	if e.Code != domainErr.Code {
		return false
	}
	return domainErr.Message == "" || e.Message == domainErr.Message
}

// WithContext clones the error with additional contextual metadata.
func (e *DomainError) WithContext(ctx map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: merged,
	}
}

// NewUnknownActionKindError reports a type tag outside the recognised set.
func NewUnknownActionKindError(kind Kind) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownActionKind,
		Message: fmt.Sprintf("unknown action type: %s", kind),
		Context: map[string]interface{}{"kind": string(kind)},
	}
}

// NewNoHandlerError reports a recognised kind without a registered handler.
func NewNoHandlerError(kind Kind) *DomainError {
	return &DomainError{
		Code:    ErrCodeNoHandler,
		Message: fmt.Sprintf("no handler registered for action %s", kind),
		Context: map[string]interface{}{"kind": string(kind)},
	}
}

// NewBackendError wraps a failure surfaced from a session or page call. The
// original message is preserved in the rendered error.
func NewBackendError(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *DomainError
	if errors.As(cause, &existing) {
		return cause
	}
	var assertion *AssertionFailure
	if errors.As(cause, &assertion) {
		return cause
	}
	return &DomainError{
		Code:    ErrCodeBackend,
		Message: fmt.Sprintf("%s failed", kind),
		Cause:   cause,
		Context: map[string]interface{}{"kind": string(kind)},
	}
}

// NewSessionError wraps a failure while acquiring or releasing a browser
// session.
func NewSessionError(op string, backend Backend, cause error) *DomainError {
	return &DomainError{
		Code:    ErrCodeBackend,
		Message: fmt.Sprintf("%s %s session", op, backend),
		Cause:   cause,
		Context: map[string]interface{}{"backend": string(backend), "op": op},
	}
}

func newValidationError(message string, context map[string]interface{}) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message, Context: context}
}

func newMissingFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissing,
		Message: "missing required field",
		Context: map[string]interface{}{"field": field},
	}
}

// AssertionMode names how an expected location is compared.
type AssertionMode string

const (
	AssertValue  AssertionMode = "value"
	AssertRegexp AssertionMode = "regexp"
)

// AssertionFailure is raised by assertLocation handlers. It carries both
// sides of the comparison so failure output is actionable without a re-run.
type AssertionFailure struct {
	Mode     AssertionMode
	Expected string
	Actual   string
}

// Error renders the comparison.
func (e *AssertionFailure) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("location check failed: must be %s, but: %s", e.Expected, e.Actual)
	if e.Mode != AssertValue {
		return msg
	}
	if diff := e.Diff(); diff != "" {
		return msg + "\n" + diff
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrAssertionFailure) succeed.
func (e *AssertionFailure) Unwrap() error {
	return ErrAssertionFailure
}

// Diff returns a unified diff between expected and actual for value
// comparisons, or an empty string when not applicable.
func (e *AssertionFailure) Diff() string {
	if e == nil || e.Mode != AssertValue || e.Expected == e.Actual {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(e.Expected + "\n"),
		B:        difflib.SplitLines(e.Actual + "\n"),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return strings.TrimRight(diff, "\n")
}
