package scenario

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeKind(t *testing.T) {
	cases := map[string]Kind{
		"goto":           KindNavigate,
		"ensure":         KindAssertLocation,
		" click ":        KindClick,
		"assertLocation": KindAssertLocation,
		"blink":          Kind("blink"),
	}
	for in, want := range cases {
		if got := NormalizeKind(in); got != want {
			t.Fatalf("NormalizeKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuiltinKindsIsACopy(t *testing.T) {
	kinds := BuiltinKinds()
	if len(kinds) != 10 {
		t.Fatalf("expected 10 builtin kinds, got %d", len(kinds))
	}
	kinds[0] = "mutated"
	if BuiltinKinds()[0] != KindNavigate {
		t.Fatal("builtin set exposed")
	}
	if Kind("mutated").IsBuiltin() {
		t.Fatal("unexpected builtin")
	}
}

func TestActionValidate(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		code   ErrorCode
	}{
		{name: "navigate", action: NewNavigate("http://localhost")},
		{name: "navigate without url", action: NewNavigate(" "), code: ErrCodeMissing},
		{name: "missing payload", action: Action{Kind: KindClick}, code: ErrCodeValidation},
		{name: "input", action: Action{Kind: KindInput, Input: &Input{Selector: "#name"}}},
		{name: "click without selector", action: Action{Kind: KindClick, Click: &Click{}}, code: ErrCodeMissing},
		{name: "negative wait", action: Action{Kind: KindWait, Wait: &Wait{Duration: -time.Second}}, code: ErrCodeValidation},
		{name: "dump", action: NewDump("0")},
		{name: "empty kind", action: Action{}, code: ErrCodeMissing},
		{name: "unknown kind", action: Action{Kind: "blink"}, code: ErrCodeUnknownActionKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate(nil)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var domainErr *DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != tt.code {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestActionValidate_Extension(t *testing.T) {
	action := Action{Kind: "hover", Custom: map[string]interface{}{"selector": "#menu"}}
	if err := action.Validate(map[Kind]struct{}{"hover": {}}); err != nil {
		t.Fatalf("registered extension rejected: %v", err)
	}
}

func TestKindSet(t *testing.T) {
	got := KindSet(
		[]Action{NewNavigate("a"), {Kind: KindClick}},
		[]Action{{Kind: KindClick}, NewDump("x")},
	)
	want := []Kind{KindClick, KindDump, KindNavigate}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNewResult(t *testing.T) {
	bare := NewResult(Action{Kind: KindClick}, "#go", "")
	if bare.Meta != nil {
		t.Fatal("empty meta should be omitted")
	}
	named := NewResult(Action{Kind: KindClick, Meta: Meta{Tag: "submit"}}, "#go", "")
	if named.Meta == nil || named.Meta.Tag != "submit" {
		t.Fatalf("meta not carried: %+v", named)
	}
}
