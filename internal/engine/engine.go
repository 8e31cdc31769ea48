// Package engine runs scenarios against a browser session: the precondition
// phase once, then the main steps for each iteration, folding handler results
// into an append-only execution context.
package engine

import (
	"context"
	"errors"
	"strconv"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// PreconditionLabel tags diagnostics captured when the precondition fails.
const PreconditionLabel = "pre"

// Engine executes scenarios for one backend. S is the backend's session
// handle and P its page handle.
type Engine[S any, P any] struct {
	adapter  ports.SessionAdapter[S, P]
	registry ports.HandlerRegistry[P]
	settings
}

// New constructs an Engine over the given session adapter and handlers.
func New[S any, P any](adapter ports.SessionAdapter[S, P], registry ports.HandlerRegistry[P], opts ...Option) *Engine[S, P] {
	e := &Engine[S, P]{
		adapter:  adapter,
		registry: registry,
		settings: defaultSettings(),
	}
	for _, opt := range opts {
		opt(&e.settings)
	}
	return e
}

// Execute runs sc with opts and returns the final execution context.
//
// Precondition failures are logged, diagnosed with a screenshot and
// swallowed. The first iteration failure is diagnosed with a screenshot and a
// markup dump, then returned; later iterations do not run. The session is
// closed exactly once on every path after it was acquired.
func (e *Engine[S, P]) Execute(ctx context.Context, sc scenario.Scenario, opts scenario.RunOptions) (result scenario.ExecutionContext, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.NewRunContext(ctx)
	if opts.Backend == "" {
		opts.Backend = scenario.DefaultBackend
	}

	execCtx := scenario.NewExecutionContext(scenario.Info{ScenarioName: sc.Name, Options: opts})
	logger := e.logger.With("scenario", sc.Name, "backend", string(opts.Backend))

	if sc.Skip {
		return execCtx, scenario.ErrScenarioSkipped.WithContext(map[string]interface{}{"scenario": sc.Name})
	}
	if !sc.RunsOn(opts.Backend) {
		return execCtx, scenario.ErrScenarioSkipped.WithContext(map[string]interface{}{
			"scenario": sc.Name,
			"backend":  string(opts.Backend),
		})
	}

	session, err := e.adapter.Launch(ctx, opts.Backend, opts.Launch)
	if err != nil {
		e.recordRun(ctx, "failure")
		return execCtx, scenario.NewSessionError("launch", opts.Backend, err)
	}
	e.metrics.AddGauge(ctx, ports.MetricActiveRuns, 1, nil)
	defer func() {
		e.metrics.AddGauge(ctx, ports.MetricActiveRuns, -1, nil)
		if closeErr := e.adapter.Close(ctx, session); closeErr != nil {
			logger.Warn(ctx, "failed to close session", "error", closeErr)
			if err == nil {
				err = scenario.NewSessionError("close", opts.Backend, closeErr)
			}
		}
		status := "success"
		if err != nil {
			status = "failure"
		}
		e.recordRun(ctx, status)
	}()

	page, err := e.adapter.OpenPage(ctx, opts.Backend, session)
	if err != nil {
		return execCtx, scenario.NewSessionError("open page on", opts.Backend, err)
	}

	if err := e.checkCoverage(sc); err != nil {
		logger.Error(ctx, "handler registry does not cover scenario", "error", err)
		e.publish(ctx, ports.EventScenarioFailed, map[string]interface{}{"scenario": sc.Name, "error": err.Error()})
		return execCtx, err
	}

	e.publish(ctx, ports.EventScenarioStarted, map[string]interface{}{
		"scenario":   sc.Name,
		"backend":    string(opts.Backend),
		"iterations": sc.IterationCount,
	})

	if sc.Precondition != nil {
		logger.Info(ctx, "precondition start")
		next, preErr := e.runPhase(ctx, logger, page, execCtx, sc.Precondition.URL, sc.Precondition.Steps)
		execCtx = next
		if preErr != nil {
			logger.Error(ctx, "precondition failed", "error", preErr)
			e.publish(ctx, ports.EventPreconditionFailed, map[string]interface{}{"scenario": sc.Name, "error": preErr.Error()})
			e.screenshot(ctx, logger, page, execCtx, PreconditionLabel)
		}
		logger.Info(ctx, "precondition done")
	}

	for i := 0; i < sc.IterationCount; i++ {
		execCtx = execCtx.BeginIteration()
		logger.Info(ctx, "iteration start", "iteration", i)
		e.publish(ctx, ports.EventIterationStarted, map[string]interface{}{"scenario": sc.Name, "iteration": i})

		next, iterErr := e.runPhase(ctx, logger, page, execCtx, sc.MainURL, sc.Steps)
		execCtx = next
		if iterErr != nil {
			label := strconv.Itoa(i)
			e.screenshot(ctx, logger, page, execCtx, label)
			e.dump(ctx, logger, page, execCtx, label)
			logger.Error(ctx, "iteration failed", "iteration", i, "error", iterErr)
			e.publish(ctx, ports.EventScenarioFailed, map[string]interface{}{
				"scenario":  sc.Name,
				"iteration": i,
				"error":     iterErr.Error(),
			})
			return execCtx, iterErr
		}
	}

	logger.Info(ctx, "scenario done", "iterations", sc.IterationCount)
	e.publish(ctx, ports.EventScenarioCompleted, map[string]interface{}{"scenario": sc.Name, "iterations": sc.IterationCount})
	return execCtx, nil
}

// checkCoverage fails fast when a kind the scenario uses has no handler.
// Precondition kinds count too, so an unhandled precondition step aborts the
// run before any step executes.
func (e *Engine[S, P]) checkCoverage(sc scenario.Scenario) error {
	if e.registry != nil {
		return e.registry.Covers(sc.Kinds())
	}
	var errs []error
	for _, kind := range sc.Kinds() {
		if _, err := e.lookup(kind); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine[S, P]) lookup(kind scenario.Kind) (ports.Handler[P], error) {
	if e.registry != nil {
		if handler, ok := e.registry.Lookup(kind); ok && handler != nil {
			return handler, nil
		}
	}
	if !kind.IsBuiltin() {
		return nil, scenario.NewUnknownActionKindError(kind)
	}
	return nil, scenario.NewNoHandlerError(kind)
}

func (e *Engine[S, P]) recordRun(ctx context.Context, status string) {
	e.metrics.IncCounter(ctx, ports.MetricScenarioRuns, map[string]string{"status": status})
}

func (e *Engine[S, P]) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, runEvent{eventType: eventType, payload: payload}); err != nil {
		e.logger.Warn(ctx, "failed to publish run event", "event_type", eventType, "error", err)
	}
}

type runEvent struct {
	eventType string
	payload   map[string]interface{}
}

func (e runEvent) EventType() string    { return e.eventType }
func (e runEvent) Payload() interface{} { return e.payload }
