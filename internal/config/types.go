// Package config decodes scenario documents: environment templating, YAML
// decoding of the tagged step variants, validation and mapping to the domain
// model.
package config

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

// Document is the on-disk shape of a scenario file. Unknown keys are ignored.
type Document struct {
	Name         string        `yaml:"name" json:"name" validate:"required" jsonschema:"description=Scenario name used for selection and logs"`
	Skip         bool          `yaml:"skip,omitempty" json:"skip,omitempty"`
	OnlyBrowser  []string      `yaml:"onlyBrowser,omitempty" json:"onlyBrowser,omitempty" validate:"omitempty,dive,backend"`
	URL          string        `yaml:"url" json:"url" validate:"required"`
	Iteration    int           `yaml:"iteration" json:"iteration,omitempty" validate:"min=0"`
	Precondition *Precondition `yaml:"precondition,omitempty" json:"precondition,omitempty"`
	Steps        []Step        `yaml:"steps" json:"steps" validate:"dive"`
}

// Precondition is run once before the iterations.
type Precondition struct {
	URL   string `yaml:"url" json:"url" validate:"required"`
	Steps []Step `yaml:"steps" json:"steps,omitempty" validate:"dive"`
}

// Step wraps a single action.
type Step struct {
	Action Action `yaml:"action" json:"action"`
}

// Meta is diagnostic metadata attached to an action.
type Meta struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Tag  string `yaml:"tag,omitempty" json:"tag,omitempty"`
}

// Action is the flattened union of every step payload. Fields nested under
// form or location are hoisted during decoding.
type Action struct {
	Type       string      `yaml:"type" json:"type" validate:"required,action_type"`
	Meta       *Meta       `yaml:"meta,omitempty" json:"meta,omitempty"`
	URL        string      `yaml:"url,omitempty" json:"url,omitempty"`
	Selector   string      `yaml:"selector,omitempty" json:"selector,omitempty"`
	Navigation bool        `yaml:"navigation,omitempty" json:"navigation,omitempty"`
	Constrains *Constrains `yaml:"constrains,omitempty" json:"constrains,omitempty"`
	Value      *Value      `yaml:"value,omitempty" json:"value,omitempty"`
	Duration   int         `yaml:"duration,omitempty" json:"duration,omitempty" validate:"min=0" jsonschema:"description=Wait duration in milliseconds"`
	Regexp     string      `yaml:"regexp,omitempty" json:"regexp,omitempty"`
	Name       string      `yaml:"name,omitempty" json:"name,omitempty"`
	Form       *Form       `yaml:"form,omitempty" json:"form,omitempty"`
	Location   *Location   `yaml:"location,omitempty" json:"location,omitempty"`

	Extra map[string]interface{} `yaml:"-" json:"-"`
}

// Form nests the fields of input, radio and select actions.
type Form struct {
	Selector   string      `yaml:"selector" json:"selector"`
	Constrains *Constrains `yaml:"constrains,omitempty" json:"constrains,omitempty"`
	Value      *Value      `yaml:"value,omitempty" json:"value,omitempty"`
}

// Location nests the fields of assertLocation actions.
type Location struct {
	Regexp string `yaml:"regexp,omitempty" json:"regexp,omitempty"`
	Value  *Value `yaml:"value,omitempty" json:"value,omitempty"`
}

// Constrains restricts generated input and select values.
type Constrains struct {
	Required bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Regexp   string   `yaml:"regexp,omitempty" json:"regexp,omitempty"`
	Values   []string `yaml:"values,omitempty" json:"values,omitempty"`
}

// Value is a literal scalar or a {faker: name} / {date: iso} generator.
type Value struct {
	Literal string
	Faker   string
	Date    string
}

// UnmarshalYAML decodes both the scalar and the mapping form.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = Value{Literal: node.Value}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Faker string `yaml:"faker"`
			Date  string `yaml:"date"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Faker == "" && raw.Date == "" {
			return fmt.Errorf("line %d: value mapping requires faker or date", node.Line)
		}
		*v = Value{Faker: raw.Faker, Date: raw.Date}
		return nil
	default:
		return fmt.Errorf("line %d: value must be a scalar or a mapping", node.Line)
	}
}

// JSONSchema describes the scalar-or-generator union.
func (Value) JSONSchema() *jsonschema.Schema {
	generator := jsonschema.NewProperties()
	generator.Set("faker", &jsonschema.Schema{Type: "string", Description: "faker generator name, e.g. name.lastName"})
	generator.Set("date", &jsonschema.Schema{Type: "string", Description: "ISO date typed as DDMMYYYY"})
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
			{Type: "boolean"},
			{Type: "object", Properties: generator, MinProperties: &minOne},
		},
	}
}

var minOne uint64 = 1

// UnmarshalYAML resolves the type tag, hoists nested form and location
// fields, and keeps the raw fields of extension kinds.
func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
		Meta *Meta  `yaml:"meta"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	kind := scenario.NormalizeKind(head.Type)

	if !kind.IsBuiltin() {
		var extra map[string]interface{}
		if err := node.Decode(&extra); err != nil {
			return err
		}
		delete(extra, "type")
		delete(extra, "meta")
		*a = Action{Type: string(kind), Meta: head.Meta, Extra: extra}
		return nil
	}

	type rawAction Action
	var raw rawAction
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*a = Action(raw)
	a.Type = string(kind)

	if f := a.Form; f != nil {
		if a.Selector == "" {
			a.Selector = f.Selector
		}
		if a.Constrains == nil {
			a.Constrains = f.Constrains
		}
		if a.Value == nil {
			a.Value = f.Value
		}
		a.Form = nil
	}
	if l := a.Location; l != nil {
		if a.Regexp == "" {
			a.Regexp = l.Regexp
		}
		if a.Value == nil {
			a.Value = l.Value
		}
		a.Location = nil
	}
	return nil
}

func (v *Value) literal() string {
	if v == nil {
		return ""
	}
	return v.Literal
}

func normalizeBackends(names []string) []scenario.Backend {
	if len(names) == 0 {
		return nil
	}
	out := make([]scenario.Backend, 0, len(names))
	for _, name := range names {
		out = append(out, scenario.Backend(strings.ToLower(strings.TrimSpace(name))))
	}
	return out
}
