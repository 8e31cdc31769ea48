package scenario

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind is the type tag of an action.
type Kind string

const (
	KindNavigate       Kind = "navigate"
	KindInput          Kind = "input"
	KindClick          Kind = "click"
	KindRadio          Kind = "radio"
	KindSelect         Kind = "select"
	KindWait           Kind = "wait"
	KindAssertLocation Kind = "assertLocation"
	KindScreenshot     Kind = "screenshot"
	KindClear          Kind = "clear"
	KindDump           Kind = "dump"
)

var builtinKinds = []Kind{
	KindNavigate,
	KindInput,
	KindClick,
	KindRadio,
	KindSelect,
	KindWait,
	KindAssertLocation,
	KindScreenshot,
	KindClear,
	KindDump,
}

// Older scenario files use these tags.
var kindAliases = map[string]Kind{
	"goto":   KindNavigate,
	"ensure": KindAssertLocation,
}

// BuiltinKinds returns the closed set of action kinds in declaration order.
func BuiltinKinds() []Kind {
	return append([]Kind(nil), builtinKinds...)
}

// IsBuiltin reports whether k belongs to the closed action set.
func (k Kind) IsBuiltin() bool {
	for _, candidate := range builtinKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// NormalizeKind resolves legacy aliases to their canonical kind.
func NormalizeKind(tag string) Kind {
	tag = strings.TrimSpace(tag)
	if alias, ok := kindAliases[tag]; ok {
		return alias
	}
	return Kind(tag)
}

// Meta is optional diagnostic metadata attached to an action.
type Meta struct {
	Name string `json:"name,omitempty"`
	Tag  string `json:"tag,omitempty"`
}

// IsZero reports whether no metadata was supplied.
func (m Meta) IsZero() bool {
	return m.Name == "" && m.Tag == ""
}

// Navigate loads a URL in the page.
type Navigate struct {
	URL string
}

// ValueSource names where an input value comes from.
type ValueSource string

const (
	ValueLiteral ValueSource = "literal"
	ValueFaker   ValueSource = "faker"
	ValueDate    ValueSource = "date"
)

// InputValue is a literal string, a faker generator name, or an ISO date.
type InputValue struct {
	Source ValueSource
	Text   string
}

// Input types text into the element matched by Selector. Exactly one of
// Value or Constrains.Regexp is meaningful.
type Input struct {
	Selector   string
	Constrains *InputConstrains
	Value      *InputValue
}

// InputConstrains restricts generated input.
type InputConstrains struct {
	Required bool
	Regexp   string
}

// Click clicks the element matched by Selector. Navigation marks clicks that
// are expected to load a new document.
type Click struct {
	Selector   string
	Navigation bool
}

// Radio checks the radio input under Selector whose value attribute is Value.
type Radio struct {
	Selector string
	Value    string
}

// Select picks one option of a select element.
type Select struct {
	Selector   string
	Constrains SelectConstrains
}

// SelectConstrains lists candidate values. When non-empty it is the
// exclusive source of the picked value.
type SelectConstrains struct {
	Required bool
	Values   []string
}

// Wait sleeps for a fixed duration.
type Wait struct {
	Duration time.Duration
}

// AssertLocation compares the current URL against Value and/or Regexp.
type AssertLocation struct {
	Regexp string
	Value  string
}

// Screenshot captures the full page under Name.
type Screenshot struct {
	Name string
}

// Clear empties the element matched by Selector.
type Clear struct {
	Selector string
}

// Dump captures the full rendered markup.
type Dump struct{}

// Action is one declarative instruction. Exactly one payload pointer matching
// Kind is set for builtin kinds; extension kinds carry Custom.
type Action struct {
	Kind Kind
	Meta Meta

	Navigate       *Navigate
	Input          *Input
	Click          *Click
	Radio          *Radio
	Select         *Select
	Wait           *Wait
	AssertLocation *AssertLocation
	Screenshot     *Screenshot
	Clear          *Clear
	Dump           *Dump
	Custom         map[string]interface{}
}

// NewNavigate builds a navigate action.
func NewNavigate(url string) Action {
	return Action{Kind: KindNavigate, Navigate: &Navigate{URL: url}}
}

// NewScreenshot builds a screenshot action.
func NewScreenshot(name string) Action {
	return Action{Kind: KindScreenshot, Screenshot: &Screenshot{Name: name}}
}

// NewDump builds a dump action labelled through its metadata name.
func NewDump(label string) Action {
	return Action{Kind: KindDump, Meta: Meta{Name: label}, Dump: &Dump{}}
}

// Label returns the most descriptive name available for logs.
func (a Action) Label() string {
	if a.Meta.Name != "" {
		return a.Meta.Name
	}
	return string(a.Kind)
}

// Validate checks that the payload matches the kind. Extension kinds are
// accepted when extensions contains them.
func (a Action) Validate(extensions map[Kind]struct{}) error {
	if a.Kind == "" {
		return newMissingFieldError("type")
	}
	if !a.Kind.IsBuiltin() {
		if _, ok := extensions[a.Kind]; ok {
			return nil
		}
		return NewUnknownActionKindError(a.Kind)
	}

	ctx := map[string]interface{}{"kind": string(a.Kind)}
	missing := func() error {
		return newValidationError(fmt.Sprintf("%s action requires its payload", a.Kind), ctx)
	}

	switch a.Kind {
	case KindNavigate:
		if a.Navigate == nil {
			return missing()
		}
		if strings.TrimSpace(a.Navigate.URL) == "" {
			return newMissingFieldError("url")
		}
	case KindInput:
		if a.Input == nil {
			return missing()
		}
		if strings.TrimSpace(a.Input.Selector) == "" {
			return newMissingFieldError("selector")
		}
	case KindClick:
		if a.Click == nil {
			return missing()
		}
		if strings.TrimSpace(a.Click.Selector) == "" {
			return newMissingFieldError("selector")
		}
	case KindRadio:
		if a.Radio == nil {
			return missing()
		}
		if strings.TrimSpace(a.Radio.Selector) == "" {
			return newMissingFieldError("selector")
		}
	case KindSelect:
		if a.Select == nil {
			return missing()
		}
		if strings.TrimSpace(a.Select.Selector) == "" {
			return newMissingFieldError("selector")
		}
	case KindWait:
		if a.Wait == nil {
			return missing()
		}
		if a.Wait.Duration < 0 {
			return newValidationError("wait duration must be non-negative", ctx)
		}
	case KindAssertLocation:
		if a.AssertLocation == nil {
			return missing()
		}
	case KindScreenshot:
		if a.Screenshot == nil {
			return missing()
		}
	case KindClear:
		if a.Clear == nil {
			return missing()
		}
		if strings.TrimSpace(a.Clear.Selector) == "" {
			return newMissingFieldError("selector")
		}
	case KindDump:
		if a.Dump == nil {
			return missing()
		}
	}
	return nil
}

// KindSet collects the distinct kinds used by actions, sorted.
func KindSet(actions ...[]Action) []Kind {
	seen := map[Kind]struct{}{}
	for _, list := range actions {
		for _, action := range list {
			seen[action.Kind] = struct{}{}
		}
	}
	kinds := make([]Kind, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
