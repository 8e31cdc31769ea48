package chrome

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/handler"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// screenshotQuality 100 makes chromedp encode PNG.
const screenshotQuality = 100

// Handlers builds the chromedp handler for every builtin action kind.
func Handlers(env handler.Env) map[scenario.Kind]ports.Handler[*Page] {
	h := &handlers{env: env}
	return map[scenario.Kind]ports.Handler[*Page]{
		scenario.KindNavigate:       h.navigate,
		scenario.KindInput:          h.input,
		scenario.KindClick:          h.click,
		scenario.KindRadio:          h.radio,
		scenario.KindSelect:         h.selectOption,
		scenario.KindWait:           handler.Wait[*Page](env.Sleep),
		scenario.KindAssertLocation: handler.AssertLocation[*Page](location),
		scenario.KindScreenshot:     h.screenshot,
		scenario.KindClear:          h.clear,
		scenario.KindDump:           h.dump,
	}
}

type handlers struct {
	env handler.Env
}

func (h *handlers) navigate(_ context.Context, p *Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	url := action.Navigate.URL
	if err := chromedp.Run(p.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("navigate to %s: %w", url, err)
	}
	return scenario.NewResult(action, "", url), nil
}

func (h *handlers) input(_ context.Context, p *Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	in := action.Input
	value, err := h.env.Values.Input(in)
	if err != nil {
		return scenario.ResultRecord{}, err
	}
	if err := chromedp.Run(p.ctx,
		chromedp.WaitVisible(in.Selector, chromedp.ByQuery),
		chromedp.SendKeys(in.Selector, value, chromedp.ByQuery),
	); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("type into %s: %w", in.Selector, err)
	}
	return scenario.NewResult(action, in.Selector, value), nil
}

func (h *handlers) click(_ context.Context, p *Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Click.Selector
	tasks := chromedp.Tasks{
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery),
	}
	if action.Click.Navigation {
		tasks = append(tasks, chromedp.WaitReady("body", chromedp.ByQuery))
	}
	if err := chromedp.Run(p.ctx, tasks); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("click %s: %w", sel, err)
	}
	return scenario.NewResult(action, sel, ""), nil
}

func (h *handlers) radio(_ context.Context, p *Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("read markup for %s: %w", action.Radio.Selector, err)
	}
	// chromedp.Click waits for a missing node until the context expires.
	if err := handler.RequireRadio(html, action.Radio); err != nil {
		return scenario.ResultRecord{}, err
	}
	sel := fmt.Sprintf(`%s[value="%s"]`, action.Radio.Selector, action.Radio.Value)
	if err := chromedp.Run(p.ctx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("check %s: %w", sel, err)
	}
	return scenario.NewResult(action, action.Radio.Selector, action.Radio.Value), nil
}

func (h *handlers) selectOption(_ context.Context, p *Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Select.Selector
	value, ok := h.env.Values.Pick(action.Select.Constrains.Values)
	if !ok {
		var html string
		if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
			return scenario.ResultRecord{}, fmt.Errorf("read markup for %s: %w", sel, err)
		}
		fallback, err := handler.FallbackOption(html, sel)
		if err != nil {
			return scenario.ResultRecord{}, err
		}
		value = fallback
	}
	if err := chromedp.Run(p.ctx,
		chromedp.SetValue(sel, value, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%q).dispatchEvent(new Event("change", {bubbles: true}))`, sel), nil),
	); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("select %q in %s: %w", value, sel, err)
	}
	return scenario.NewResult(action, sel, value), nil
}

func (h *handlers) screenshot(_ context.Context, p *Page, action scenario.Action, opts ports.HandlerOptions) (scenario.ResultRecord, error) {
	var buf []byte
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, screenshotQuality)); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("capture screenshot: %w", err)
	}
	return h.env.WriteArtifact(action, opts, handler.ScreenshotLabel(action), scenario.ArtifactScreenshot, buf)
}

func (h *handlers) clear(_ context.Context, p *Page, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
	sel := action.Clear.Selector
	if err := chromedp.Run(p.ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
	); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("clear %s: %w", sel, err)
	}
	return scenario.NewResult(action, sel, ""), nil
}

func (h *handlers) dump(ctx context.Context, p *Page, action scenario.Action, opts ports.HandlerOptions) (scenario.ResultRecord, error) {
	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("read markup: %w", err)
	}
	return h.env.WriteDump(ctx, action, opts, html)
}

func location(_ context.Context, p *Page) (string, error) {
	var url string
	if err := chromedp.Run(p.ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}
