// Package dispatch runs many scenario files on a bounded worker pool. Each
// worker runs one scenario at a time; workers share nothing but the queue.
package dispatch

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/pprunner/internal/config"
	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
	apperrors "github.com/alexisbeaulieu97/pprunner/pkg/errors"
)

// Status is the outcome of one scenario file.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusInvalid Status = "invalid"
)

// Skip reasons reported in Result.Reason.
const (
	ReasonSkipFlag    = "skip is set"
	ReasonOnlyBrowser = "not enabled for this browser"
	ReasonMissingName = "scenario has no name"
	ReasonNotTargeted = "not in target list"
)

// Result describes what happened to one file.
type Result struct {
	Path     string
	Scenario string
	Status   Status
	Reason   string
	Err      error
	Duration time.Duration
	Context  scenario.ExecutionContext
}

// Loader decodes scenario files in two stages so skip rules apply before
// validation.
type Loader interface {
	Inspect(ctx context.Context, path string) (*config.Document, error)
	Scenario(ctx context.Context, path string, doc *config.Document) (*scenario.Scenario, error)
}

// Runner executes one validated scenario.
type Runner interface {
	Execute(ctx context.Context, sc scenario.Scenario, opts scenario.RunOptions) (scenario.ExecutionContext, error)
}

// Dispatcher hands scenario files to workers.
type Dispatcher struct {
	loader   Loader
	runner   Runner
	logger   ports.Logger
	metrics  ports.MetricsCollector
	parallel int
	targets  map[string]struct{}
	run      scenario.RunOptions
	now      func() time.Time
	onStart  func(path string)
	onResult func(Result)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger injects a logger.
func WithLogger(logger ports.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics injects a metrics collector.
func WithMetrics(metrics ports.MetricsCollector) Option {
	return func(d *Dispatcher) {
		if metrics != nil {
			d.metrics = metrics
		}
	}
}

// WithParallel sets the number of workers. Zero or one runs files
// sequentially.
func WithParallel(n int) Option {
	return func(d *Dispatcher) {
		d.parallel = n
	}
}

// WithTargets restricts execution to scenarios with the given names.
func WithTargets(names []string) Option {
	return func(d *Dispatcher) {
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				d.targets[name] = struct{}{}
			}
		}
	}
}

// WithRunOptions sets the options every scenario runs with.
func WithRunOptions(opts scenario.RunOptions) Option {
	return func(d *Dispatcher) {
		d.run = opts
	}
}

// WithProgress registers callbacks invoked when a file starts and finishes.
// Callbacks are serialized.
func WithProgress(onStart func(path string), onResult func(Result)) Option {
	return func(d *Dispatcher) {
		d.onStart = onStart
		d.onResult = onResult
	}
}

// New creates a Dispatcher.
func New(loader Loader, runner Runner, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		loader:  loader,
		runner:  runner,
		logger:  logging.NewNoOpLogger(),
		metrics: ports.NoOpMetrics{},
		targets: make(map[string]struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes files and returns one result per file in input order. A
// failing file never stops the others; the error is non-nil only when ctx
// ends before every file was handed out.
func (d *Dispatcher) Run(ctx context.Context, files []string) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]Result, len(files))

	limit := d.parallel
	if limit < 1 {
		limit = 1
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range files {
		if err := gctx.Err(); err != nil {
			for j := i; j < len(files); j++ {
				results[j] = Result{Path: files[j], Status: StatusSkipped, Reason: "cancelled", Err: err}
			}
			break
		}
		i, path := i, path
		g.Go(func() error {
			if d.onStart != nil {
				mu.Lock()
				d.onStart(path)
				mu.Unlock()
			}
			result := d.runFile(gctx, path)
			results[i] = result
			d.metrics.IncCounter(gctx, ports.MetricScenarioFiles, map[string]string{"status": string(result.Status)})
			if d.onResult != nil {
				mu.Lock()
				d.onResult(result)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

func (d *Dispatcher) runFile(ctx context.Context, path string) Result {
	ctx = logging.NewRunContext(ctx)
	started := d.now()
	result := Result{Path: path}
	finish := func() Result {
		result.Duration = d.now().Sub(started)
		return result
	}

	doc, err := d.loader.Inspect(ctx, path)
	if err != nil {
		result.Status, result.Err = StatusInvalid, err
		d.logger.Error(ctx, "scenario file unreadable", "path", path, "error", err)
		return finish()
	}
	result.Scenario = doc.Name

	if reason, skip := d.skipReason(doc); skip {
		result.Status, result.Reason = StatusSkipped, reason
		if reason == ReasonMissingName {
			d.logger.Warn(ctx, "scenario must set name", "path", path)
		} else {
			d.logger.Info(ctx, "scenario skipped", "path", path, "reason", reason)
		}
		return finish()
	}

	sc, err := d.loader.Scenario(ctx, path, doc)
	if err != nil {
		result.Status, result.Err = StatusInvalid, err
		return finish()
	}

	d.logger.Info(ctx, "scenario started", "path", path, "scenario", sc.Name)
	execCtx, err := d.runner.Execute(ctx, *sc, d.run)
	result.Context = execCtx
	if err != nil {
		if errors.Is(err, scenario.ErrScenarioSkipped) {
			result.Status, result.Reason = StatusSkipped, ReasonSkipFlag
			return finish()
		}
		result.Status = StatusFailed
		result.Err = apperrors.NewExecutionError(sc.Name, path, err)
		d.logger.Error(ctx, "scenario failed", "path", path, "scenario", sc.Name, "error", err)
		return finish()
	}
	result.Status = StatusPassed
	d.logger.Info(ctx, "scenario passed", "path", path, "scenario", sc.Name)
	return finish()
}

func (d *Dispatcher) skipReason(doc *config.Document) (string, bool) {
	switch {
	case doc.Skip:
		return ReasonSkipFlag, true
	case !runsOn(doc.OnlyBrowser, d.run.Backend):
		return ReasonOnlyBrowser, true
	case strings.TrimSpace(doc.Name) == "":
		return ReasonMissingName, true
	}
	if len(d.targets) > 0 {
		if _, ok := d.targets[doc.Name]; !ok {
			return ReasonNotTargeted, true
		}
	}
	return "", false
}

func runsOn(only []string, backend scenario.Backend) bool {
	if backend == "" {
		backend = scenario.DefaultBackend
	}
	sc := scenario.Scenario{OnlyBrowser: make([]scenario.Backend, 0, len(only))}
	for _, name := range only {
		sc.OnlyBrowser = append(sc.OnlyBrowser, scenario.Backend(strings.ToLower(strings.TrimSpace(name))))
	}
	return sc.RunsOn(backend)
}

// Discover lists the YAML files under root recursively in lexical order.
// A file root is returned as is.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if path == root {
			files = append(files, path)
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Summary counts results by status.
type Summary struct {
	Passed, Failed, Skipped, Invalid int
}

// Summarize counts results and joins the errors of failed and invalid files.
func Summarize(results []Result) (Summary, error) {
	var s Summary
	var errs []error
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
			errs = append(errs, r.Err)
		case StatusSkipped:
			s.Skipped++
		case StatusInvalid:
			s.Invalid++
			errs = append(errs, r.Err)
		}
	}
	return s, errors.Join(errs...)
}
