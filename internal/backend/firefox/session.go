// Package firefox drives Firefox through Playwright.
package firefox

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// Session owns the Playwright driver and the launched browser.
type Session struct {
	pw                *playwright.Playwright
	browser           playwright.Browser
	ignoreHTTPSErrors bool
}

// Adapter implements ports.SessionAdapter on playwright-go.
type Adapter struct {
	logger ports.Logger
}

// NewAdapter creates a Playwright session adapter.
func NewAdapter(logger ports.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Adapter{logger: logger.With("component", "firefox")}
}

// Launch starts the Playwright driver and a Firefox instance, or connects to
// the Playwright server at opts.RemoteURL.
func (a *Adapter) Launch(ctx context.Context, _ scenario.Backend, opts scenario.LaunchOptions) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	var browser playwright.Browser
	if opts.RemoteURL != "" {
		browser, err = pw.Firefox.Connect(opts.RemoteURL)
	} else {
		browser, err = pw.Firefox.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
			Args:     opts.Args,
		})
	}
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch firefox: %w", err)
	}
	a.logger.Debug(ctx, "browser launched", "version", browser.Version(), "headless", opts.Headless)
	return &Session{pw: pw, browser: browser, ignoreHTTPSErrors: opts.IgnoreHTTPSErrors}, nil
}

// OpenPage creates an isolated browser context with one page.
func (a *Adapter) OpenPage(_ context.Context, _ scenario.Backend, s *Session) (playwright.Page, error) {
	if s == nil || s.browser == nil {
		return nil, errors.New("browser is not running")
	}
	bctx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(s.ignoreHTTPSErrors),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	return bctx.NewPage()
}

// Close closes the browser and stops the driver.
func (a *Adapter) Close(_ context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

var _ ports.SessionAdapter[*Session, playwright.Page] = (*Adapter)(nil)
