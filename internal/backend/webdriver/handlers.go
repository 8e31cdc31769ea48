package webdriver

import (
	"context"
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/handler"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// clickRadio clicks the first element under arguments[0] whose value equals
// arguments[1] and reports whether one was found.
const clickRadio = `var els = document.querySelectorAll(arguments[0]);
for (var i = 0; i < els.length; i++) {
  if (els[i].value === String(arguments[1])) { els[i].click(); return true; }
}
return false;`

// Handlers builds the WebDriver handler for every builtin action kind.
func Handlers(env handler.Env) map[scenario.Kind]ports.Handler[selenium.WebDriver] {
	h := &handlers{env: env}
	return map[scenario.Kind]ports.Handler[selenium.WebDriver]{
		scenario.KindNavigate:       h.navigate,
		scenario.KindInput:          h.input,
		scenario.KindClick:          h.click,
		scenario.KindRadio:          h.radio,
		scenario.KindSelect:         h.selectOption,
		scenario.KindWait:           handler.Wait[selenium.WebDriver](env.Sleep),
		scenario.KindAssertLocation: handler.AssertLocation[selenium.WebDriver](location),
		scenario.KindScreenshot:     h.screenshot,
		scenario.KindClear:          h.clear,
		scenario.KindDump:           h.dump,
	}
}

type handlers struct {
	env handler.Env
}

func (h *handlers) navigate(_ context.Context, wd selenium.WebDriver, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	url := action.Navigate.URL
	if err := wd.Get(url); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("navigate to %s: %w", url, err)
	}
	return scenario.NewResult(action, "", url), nil
}

func (h *handlers) input(_ context.Context, wd selenium.WebDriver, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	in := action.Input
	elem, err := wd.FindElement(selenium.ByCSSSelector, in.Selector)
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("find %s: %w", in.Selector, err)
	}
	value, err := h.env.Values.Input(in)
	if err != nil {
		return scenario.ResultRecord{}, err
	}
	if err := elem.SendKeys(value); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("type into %s: %w", in.Selector, err)
	}
	return scenario.NewResult(action, in.Selector, value), nil
}

func (h *handlers) click(_ context.Context, wd selenium.WebDriver, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Click.Selector
	if err := clickCSS(wd, sel); err != nil {
		return scenario.ResultRecord{}, err
	}
	return scenario.NewResult(action, sel, ""), nil
}

func (h *handlers) radio(_ context.Context, wd selenium.WebDriver, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	found, err := wd.ExecuteScript(clickRadio, []interface{}{action.Radio.Selector, action.Radio.Value})
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("check %s: %w", action.Radio.Selector, err)
	}
	if ok, _ := found.(bool); !ok {
		return scenario.ResultRecord{}, fmt.Errorf("no radio %s with value %q", action.Radio.Selector, action.Radio.Value)
	}
	return scenario.NewResult(action, action.Radio.Selector, action.Radio.Value), nil
}

func (h *handlers) selectOption(_ context.Context, wd selenium.WebDriver, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Select.Selector
	value, ok := h.env.Values.Pick(action.Select.Constrains.Values)
	if !ok {
		html, err := wd.PageSource()
		if err != nil {
			return scenario.ResultRecord{}, fmt.Errorf("read markup for %s: %w", sel, err)
		}
		if value, err = handler.FallbackOption(html, sel); err != nil {
			return scenario.ResultRecord{}, err
		}
	}
	if err := clickCSS(wd, fmt.Sprintf(`%s [value='%s']`, sel, value)); err != nil {
		return scenario.ResultRecord{}, err
	}
	return scenario.NewResult(action, sel, value), nil
}

func (h *handlers) screenshot(_ context.Context, wd selenium.WebDriver, action scenario.Action, opts ports.HandlerOptions) (scenario.ResultRecord, error) {
	buf, err := wd.Screenshot()
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("capture screenshot: %w", err)
	}
	return h.env.WriteArtifact(action, opts, handler.ScreenshotLabel(action), scenario.ArtifactScreenshot, buf)
}

func (h *handlers) clear(_ context.Context, wd selenium.WebDriver, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Clear.Selector
	elem, err := wd.FindElement(selenium.ByCSSSelector, sel)
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("find %s: %w", sel, err)
	}
	if err := elem.Clear(); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("clear %s: %w", sel, err)
	}
	return scenario.NewResult(action, sel, ""), nil
}

func (h *handlers) dump(ctx context.Context, wd selenium.WebDriver, action scenario.Action, opts ports.HandlerOptions) (scenario.ResultRecord, error) {
	html, err := wd.PageSource()
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("read markup: %w", err)
	}
	return h.env.WriteDump(ctx, action, opts, html)
}

func clickCSS(wd selenium.WebDriver, sel string) error {
	elem, err := wd.FindElement(selenium.ByCSSSelector, sel)
	if err != nil {
		return fmt.Errorf("find %s: %w", sel, err)
	}
	if err := elem.Click(); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

func location(_ context.Context, wd selenium.WebDriver) (string, error) {
	url, err := wd.CurrentURL()
	if err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}
