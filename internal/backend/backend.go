// Package backend resolves a backend kind to a ready engine: its session
// adapter, its handler set and any extension handlers the caller registered.
package backend

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/tebeka/selenium"

	"github.com/alexisbeaulieu97/pprunner/internal/backend/chrome"
	"github.com/alexisbeaulieu97/pprunner/internal/backend/firefox"
	"github.com/alexisbeaulieu97/pprunner/internal/backend/webdriver"
	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/engine"
	"github.com/alexisbeaulieu97/pprunner/internal/handler"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// Extensions holds caller supplied handlers per backend page type. A kind
// outside the builtin set becomes a new step type tag for that backend.
type Extensions struct {
	Chrome    map[scenario.Kind]ports.Handler[*chrome.Page]
	Firefox   map[scenario.Kind]ports.Handler[playwright.Page]
	WebDriver map[scenario.Kind]ports.Handler[selenium.WebDriver]
}

// Config configures runner construction.
type Config struct {
	Env        handler.Env
	Logger     ports.Logger
	Engine     []engine.Option
	Extensions Extensions
}

type executor interface {
	Execute(ctx context.Context, sc scenario.Scenario, opts scenario.RunOptions) (scenario.ExecutionContext, error)
}

// Runner executes scenarios on one backend.
type Runner struct {
	backend    scenario.Backend
	exec       executor
	extensions map[scenario.Kind]struct{}
}

// New builds the runner for kind.
func New(kind scenario.Backend, cfg Config) (*Runner, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNoOpLogger()
	}
	if cfg.Env.Values == nil {
		cfg.Env = handler.NewEnv(0)
	}
	if cfg.Env.Logger == nil {
		cfg.Env.Logger = cfg.Logger.With("component", "handler")
	}
	opts := append([]engine.Option{engine.WithLogger(cfg.Logger)}, cfg.Engine...)

	switch kind {
	case scenario.BackendChrome:
		reg, err := registry(chrome.Handlers(cfg.Env), cfg.Extensions.Chrome)
		if err != nil {
			return nil, err
		}
		return &Runner{
			backend:    kind,
			exec:       engine.New[*chrome.Browser, *chrome.Page](chrome.NewAdapter(cfg.Logger), reg, opts...),
			extensions: reg.Extensions(),
		}, nil
	case scenario.BackendFirefox:
		reg, err := registry(firefox.Handlers(cfg.Env), cfg.Extensions.Firefox)
		if err != nil {
			return nil, err
		}
		return &Runner{
			backend:    kind,
			exec:       engine.New[*firefox.Session, playwright.Page](firefox.NewAdapter(cfg.Logger), reg, opts...),
			extensions: reg.Extensions(),
		}, nil
	case scenario.BackendIE:
		reg, err := registry(webdriver.Handlers(cfg.Env), cfg.Extensions.WebDriver)
		if err != nil {
			return nil, err
		}
		return &Runner{
			backend:    kind,
			exec:       engine.New[selenium.WebDriver, selenium.WebDriver](webdriver.NewAdapter(cfg.Logger), reg, opts...),
			extensions: reg.Extensions(),
		}, nil
	default:
		_, err := scenario.ParseBackend(string(kind))
		if err == nil {
			err = fmt.Errorf("backend %q has no runner", kind)
		}
		return nil, err
	}
}

// Backend returns the kind this runner drives.
func (r *Runner) Backend() scenario.Backend {
	return r.backend
}

// Extensions returns the extension kinds registered on this runner.
func (r *Runner) Extensions() map[scenario.Kind]struct{} {
	out := make(map[scenario.Kind]struct{}, len(r.extensions))
	for kind := range r.extensions {
		out[kind] = struct{}{}
	}
	return out
}

// Execute runs sc on this runner's backend. opts.Backend is forced to the
// runner's kind.
func (r *Runner) Execute(ctx context.Context, sc scenario.Scenario, opts scenario.RunOptions) (scenario.ExecutionContext, error) {
	opts.Backend = r.backend
	return r.exec.Execute(ctx, sc, opts)
}

func registry[P any](builtin, extra map[scenario.Kind]ports.Handler[P]) (*handler.Registry[P], error) {
	reg := handler.NewRegistry[P]()
	if err := reg.RegisterAll(builtin); err != nil {
		return nil, err
	}
	if err := reg.RegisterAll(extra); err != nil {
		return nil, fmt.Errorf("register extension: %w", err)
	}
	return reg, nil
}
