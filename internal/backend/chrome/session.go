// Package chrome drives Chromium over the DevTools protocol with chromedp.
// One browser process backs a session and every page is its own tab.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// Browser is a running Chromium instance.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	pages       []*Page
}

// Page is one tab. Actions run against its chromedp context.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Adapter implements ports.SessionAdapter for chromedp.
type Adapter struct {
	logger ports.Logger
}

// NewAdapter creates a chromedp session adapter.
func NewAdapter(logger ports.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Adapter{logger: logger.With("component", "chrome")}
}

// Launch starts Chromium, or attaches to the DevTools endpoint in
// opts.RemoteURL when set.
func (a *Adapter) Launch(ctx context.Context, _ scenario.Backend, opts scenario.LaunchOptions) (*Browser, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if opts.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	}

	browserCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			a.logger.Debug(ctx, "chromedp", "detail", fmt.Sprintf(format, args...))
		}),
	)
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, err
	}
	a.logger.Debug(ctx, "browser launched", "headless", opts.Headless)
	return &Browser{ctx: browserCtx, cancel: cancel, allocCancel: allocCancel}, nil
}

// OpenPage opens a new tab in the browser.
func (a *Adapter) OpenPage(_ context.Context, _ scenario.Backend, b *Browser) (*Page, error) {
	if b == nil {
		return nil, errors.New("browser is not running")
	}
	pageCtx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(pageCtx); err != nil {
		cancel()
		return nil, err
	}
	page := &Page{ctx: pageCtx, cancel: cancel}
	b.pages = append(b.pages, page)
	return page, nil
}

// Close shuts every tab and the browser process down.
func (a *Adapter) Close(_ context.Context, b *Browser) error {
	if b == nil {
		return nil
	}
	for _, p := range b.pages {
		p.cancel()
	}
	err := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func allocatorOptions(opts scenario.LaunchOptions) []chromedp.ExecAllocatorOption {
	options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	options = append(options, chromedp.Flag("headless", opts.Headless))
	if opts.IgnoreHTTPSErrors {
		options = append(options, chromedp.IgnoreCertErrors)
	}
	for _, arg := range opts.Args {
		name, value := splitFlag(arg)
		if name == "" {
			continue
		}
		options = append(options, chromedp.Flag(name, value))
	}
	return options
}

// splitFlag turns "--window-size=1280,800" into ("window-size", "1280,800")
// and "--no-sandbox" into ("no-sandbox", true).
func splitFlag(arg string) (string, interface{}) {
	trimmed := strings.TrimLeft(strings.TrimSpace(arg), "-")
	if trimmed == "" {
		return "", nil
	}
	if name, value, ok := strings.Cut(trimmed, "="); ok {
		return name, value
	}
	return trimmed, true
}

var _ ports.SessionAdapter[*Browser, *Page] = (*Adapter)(nil)
