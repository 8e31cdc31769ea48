package config

import (
	"time"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

func mapSteps(steps []Step) []scenario.Action {
	if len(steps) == 0 {
		return nil
	}
	out := make([]scenario.Action, 0, len(steps))
	for _, step := range steps {
		out = append(out, mapAction(step.Action))
	}
	return out
}

func mapAction(a Action) scenario.Action {
	action := scenario.Action{Kind: scenario.Kind(a.Type)}
	if a.Meta != nil {
		action.Meta = scenario.Meta{Name: a.Meta.Name, Tag: a.Meta.Tag}
	}

	switch action.Kind {
	case scenario.KindNavigate:
		action.Navigate = &scenario.Navigate{URL: a.URL}
	case scenario.KindInput:
		in := &scenario.Input{Selector: a.Selector, Value: inputValue(a.Value)}
		if a.Constrains != nil {
			in.Constrains = &scenario.InputConstrains{Required: a.Constrains.Required, Regexp: a.Constrains.Regexp}
		}
		action.Input = in
	case scenario.KindClick:
		action.Click = &scenario.Click{Selector: a.Selector, Navigation: a.Navigation}
	case scenario.KindRadio:
		action.Radio = &scenario.Radio{Selector: a.Selector, Value: a.Value.literal()}
	case scenario.KindSelect:
		sel := &scenario.Select{Selector: a.Selector}
		if a.Constrains != nil {
			sel.Constrains = scenario.SelectConstrains{
				Required: a.Constrains.Required,
				Values:   append([]string(nil), a.Constrains.Values...),
			}
		}
		action.Select = sel
	case scenario.KindWait:
		action.Wait = &scenario.Wait{Duration: time.Duration(a.Duration) * time.Millisecond}
	case scenario.KindAssertLocation:
		action.AssertLocation = &scenario.AssertLocation{Regexp: a.Regexp, Value: a.Value.literal()}
	case scenario.KindScreenshot:
		action.Screenshot = &scenario.Screenshot{Name: a.Name}
	case scenario.KindClear:
		action.Clear = &scenario.Clear{Selector: a.Selector}
	case scenario.KindDump:
		action.Dump = &scenario.Dump{}
	default:
		action.Custom = a.Extra
	}
	return action
}

func inputValue(v *Value) *scenario.InputValue {
	switch {
	case v == nil:
		return nil
	case v.Faker != "":
		return &scenario.InputValue{Source: scenario.ValueFaker, Text: v.Faker}
	case v.Date != "":
		return &scenario.InputValue{Source: scenario.ValueDate, Text: v.Date}
	default:
		return &scenario.InputValue{Source: scenario.ValueLiteral, Text: v.Literal}
	}
}
