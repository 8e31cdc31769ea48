package scenario

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := NewNoHandlerError(KindClick)
	want := "NO_HANDLER_FOR_ACTION: no handler registered for action click"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestDomainError_SentinelMatching(t *testing.T) {
	err := fmt.Errorf("step 2: %w", NewUnknownActionKindError("blink"))
	if !errors.Is(err, ErrUnknownActionKind) {
		t.Fatal("expected sentinel to match any unknown action error")
	}
	if errors.Is(err, ErrNoHandler) {
		t.Fatal("codes must not cross-match")
	}

	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Context["kind"] != "blink" {
		t.Fatalf("expected kind in context, got %+v", domainErr)
	}
}

func TestDomainError_WithContext(t *testing.T) {
	err := NewNoHandlerError(KindDump)
	updated := err.WithContext(map[string]interface{}{"phase": "pre"})
	if updated == err {
		t.Fatal("WithContext should return a new instance")
	}
	if updated.Context["kind"] != "dump" || updated.Context["phase"] != "pre" {
		t.Fatalf("context merge failed: %+v", updated.Context)
	}
	if _, ok := err.Context["phase"]; ok {
		t.Fatal("original context mutated")
	}
}

func TestNewBackendError(t *testing.T) {
	if NewBackendError(KindClick, nil) != nil {
		t.Fatal("nil cause should produce nil")
	}

	cause := errors.New("no node found for selector #go")
	err := NewBackendError(KindClick, cause)
	if !errors.Is(err, ErrBackendOperation) || !errors.Is(err, cause) {
		t.Fatalf("expected backend failure wrapping cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "#go") {
		t.Fatalf("original message lost: %s", err.Error())
	}

	assertion := &AssertionFailure{Mode: AssertRegexp, Expected: "/done", Actual: "/start"}
	if got := NewBackendError(KindAssertLocation, assertion); got != error(assertion) {
		t.Fatalf("assertion failures must pass through, got %v", got)
	}

	unknown := &DomainError{Code: ErrCodeUnknownInput, Message: "no value"}
	if got := NewBackendError(KindInput, unknown); !errors.Is(got, ErrUnknownInput) {
		t.Fatalf("domain errors must pass through, got %v", got)
	}
}

func TestAssertionFailure(t *testing.T) {
	regexpErr := &AssertionFailure{Mode: AssertRegexp, Expected: "/done", Actual: "http://localhost/start"}
	if regexpErr.Error() != "location check failed: must be /done, but: http://localhost/start" {
		t.Fatalf("unexpected message: %s", regexpErr.Error())
	}
	if regexpErr.Diff() != "" {
		t.Fatal("regexp comparisons have no diff")
	}
	if !errors.Is(regexpErr, ErrAssertionFailure) {
		t.Fatal("expected sentinel match")
	}

	valueErr := &AssertionFailure{Mode: AssertValue, Expected: "http://localhost/done", Actual: "http://localhost/start"}
	msg := valueErr.Error()
	if !strings.Contains(msg, "-http://localhost/done") || !strings.Contains(msg, "+http://localhost/start") {
		t.Fatalf("expected unified diff in message, got %s", msg)
	}
}
