// Package webdriver drives a remote WebDriver endpoint with tebeka/selenium.
// The session is the page: one window per session.
package webdriver

import (
	"context"
	"errors"
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// DefaultURL is where a local Selenium server listens.
const DefaultURL = "http://localhost:4444/wd/hub"

var browserNames = map[scenario.Backend]string{
	scenario.BackendIE:      "internet explorer",
	scenario.BackendChrome:  "chrome",
	scenario.BackendFirefox: "firefox",
}

// Dialer opens a WebDriver session.
type Dialer func(caps selenium.Capabilities, url string) (selenium.WebDriver, error)

// Adapter implements ports.SessionAdapter over WebDriver.
type Adapter struct {
	logger ports.Logger
	dial   Dialer
}

// NewAdapter creates a WebDriver session adapter.
func NewAdapter(logger ports.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Adapter{logger: logger.With("component", "webdriver"), dial: selenium.NewRemote}
}

// WithDialer replaces how sessions are opened.
func (a *Adapter) WithDialer(dial Dialer) *Adapter {
	a.dial = dial
	return a
}

// Launch opens a remote session at opts.RemoteURL, or DefaultURL.
func (a *Adapter) Launch(ctx context.Context, backend scenario.Backend, opts scenario.LaunchOptions) (selenium.WebDriver, error) {
	url := opts.RemoteURL
	if url == "" {
		url = DefaultURL
	}
	caps := Capabilities(backend, opts)
	wd, err := a.dial(caps, url)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", url, err)
	}
	a.logger.Debug(ctx, "webdriver session opened", "url", url, "browser", caps["browserName"])
	return wd, nil
}

// OpenPage returns the session itself.
func (a *Adapter) OpenPage(_ context.Context, _ scenario.Backend, wd selenium.WebDriver) (selenium.WebDriver, error) {
	if wd == nil {
		return nil, errors.New("webdriver session is not open")
	}
	return wd, nil
}

// Close quits the remote session.
func (a *Adapter) Close(_ context.Context, wd selenium.WebDriver) error {
	if wd == nil {
		return nil
	}
	return wd.Quit()
}

// Capabilities builds the W3C capabilities for backend.
func Capabilities(backend scenario.Backend, opts scenario.LaunchOptions) selenium.Capabilities {
	name, ok := browserNames[backend]
	if !ok {
		name = string(backend)
	}
	caps := selenium.Capabilities{"browserName": name}
	if opts.IgnoreHTTPSErrors {
		caps["acceptInsecureCerts"] = true
	}
	return caps
}

var _ ports.SessionAdapter[selenium.WebDriver, selenium.WebDriver] = (*Adapter)(nil)
