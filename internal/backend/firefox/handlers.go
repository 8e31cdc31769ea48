package firefox

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/handler"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// Handlers builds the Playwright handler for every builtin action kind.
func Handlers(env handler.Env) map[scenario.Kind]ports.Handler[playwright.Page] {
	h := &handlers{env: env}
	return map[scenario.Kind]ports.Handler[playwright.Page]{
		scenario.KindNavigate:       h.navigate,
		scenario.KindInput:          h.input,
		scenario.KindClick:          h.click,
		scenario.KindRadio:          h.radio,
		scenario.KindSelect:         h.selectOption,
		scenario.KindWait:           handler.Wait[playwright.Page](env.Sleep),
		scenario.KindAssertLocation: handler.AssertLocation[playwright.Page](location),
		scenario.KindScreenshot:     h.screenshot,
		scenario.KindClear:          h.clear,
		scenario.KindDump:           h.dump,
	}
}

type handlers struct {
	env handler.Env
}

func (h *handlers) navigate(_ context.Context, page playwright.Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	url := action.Navigate.URL
	if _, err := page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateNetworkidle}); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("navigate to %s: %w", url, err)
	}
	return scenario.NewResult(action, "", url), nil
}

func (h *handlers) input(_ context.Context, page playwright.Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	in := action.Input
	value, err := h.env.Values.Input(in)
	if err != nil {
		return scenario.ResultRecord{}, err
	}
	if err := page.Locator(in.Selector).First().PressSequentially(value); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("type into %s: %w", in.Selector, err)
	}
	return scenario.NewResult(action, in.Selector, value), nil
}

func (h *handlers) click(_ context.Context, page playwright.Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Click.Selector
	if err := page.Locator(sel).First().Click(); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("click %s: %w", sel, err)
	}
	if action.Click.Navigation {
		if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: playwright.LoadStateLoad}); err != nil {
			return scenario.ResultRecord{}, fmt.Errorf("wait for navigation after %s: %w", sel, err)
		}
	}
	return scenario.NewResult(action, sel, ""), nil
}

func (h *handlers) radio(_ context.Context, page playwright.Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	html, err := page.Content()
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("read markup for %s: %w", action.Radio.Selector, err)
	}
	if err := handler.RequireRadio(html, action.Radio); err != nil {
		return scenario.ResultRecord{}, err
	}
	sel := fmt.Sprintf(`%s[value="%s"]`, action.Radio.Selector, action.Radio.Value)
	if err := page.Locator(sel).First().Check(); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("check %s: %w", sel, err)
	}
	return scenario.NewResult(action, action.Radio.Selector, action.Radio.Value), nil
}

func (h *handlers) selectOption(_ context.Context, page playwright.Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Select.Selector
	value, ok := h.env.Values.Pick(action.Select.Constrains.Values)
	if !ok {
		html, err := page.Content()
		if err != nil {
			return scenario.ResultRecord{}, fmt.Errorf("read markup for %s: %w", sel, err)
		}
		if value, err = handler.FallbackOption(html, sel); err != nil {
			return scenario.ResultRecord{}, err
		}
	}
	if _, err := page.Locator(sel).First().SelectOption(playwright.SelectOptionValues{Values: &[]string{value}}); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("select %q in %s: %w", value, sel, err)
	}
	return scenario.NewResult(action, sel, value), nil
}

func (h *handlers) screenshot(_ context.Context, page playwright.Page, action scenario.Action, opts ports.HandlerOptions) (scenario.ResultRecord, error) {
	buf, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("capture screenshot: %w", err)
	}
	return h.env.WriteArtifact(action, opts, handler.ScreenshotLabel(action), scenario.ArtifactScreenshot, buf)
}

func (h *handlers) clear(_ context.Context, page playwright.Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Clear.Selector
	if err := page.Locator(sel).First().Clear(); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("clear %s: %w", sel, err)
	}
	return scenario.NewResult(action, sel, ""), nil
}

func (h *handlers) dump(ctx context.Context, page playwright.Page, action scenario.Action, opts ports.HandlerOptions) (scenario.ResultRecord, error) {
	html, err := page.Content()
	if err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("read markup: %w", err)
	}
	return h.env.WriteDump(ctx, action, opts, html)
}

func location(_ context.Context, page playwright.Page) (string, error) {
	return page.URL(), nil
}
