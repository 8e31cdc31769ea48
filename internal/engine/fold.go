package engine

import (
	"context"
	"time"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// runPhase navigates to url and folds steps into execCtx in order. On error
// the context accumulated before the failing step is returned with it.
func (e *Engine[S, P]) runPhase(ctx context.Context, logger ports.Logger, page P, execCtx scenario.ExecutionContext, url string, steps []scenario.Action) (scenario.ExecutionContext, error) {
	if _, err := e.dispatch(ctx, logger, page, scenario.NewNavigate(url), execCtx); err != nil {
		return execCtx, err
	}

	for _, action := range steps {
		rec, err := e.dispatch(ctx, logger, page, action, execCtx)
		if err != nil {
			return execCtx, err
		}
		execCtx = execCtx.Append(rec)
		if delay := execCtx.Info().Options.Backend.SettleDelay(); delay > 0 {
			e.sleep(delay)
		}
	}
	return execCtx, nil
}

// dispatch resolves and invokes the handler for one action. Handler errors
// that are not already classified become backend operation failures.
func (e *Engine[S, P]) dispatch(ctx context.Context, logger ports.Logger, page P, action scenario.Action, execCtx scenario.ExecutionContext) (scenario.ResultRecord, error) {
	handler, err := e.lookup(action.Kind)
	if err != nil {
		logger.Error(ctx, "cannot dispatch action", "kind", string(action.Kind), "error", err)
		return scenario.ResultRecord{}, err
	}

	info := execCtx.Info()
	logger.Debug(ctx, "executing step",
		"kind", string(action.Kind),
		"name", action.Meta.Name,
		"tag", action.Meta.Tag,
		"iteration", execCtx.CurrentIteration(),
	)

	start := e.now()
	rec, err := handler(ctx, page, action, ports.HandlerOptions{
		ImageDir: info.Options.ImageDir,
		Backend:  info.Options.Backend,
		Context:  execCtx,
	})
	elapsed := e.now().Sub(start)
	e.recordStep(ctx, action.Kind, err, elapsed)

	payload := map[string]interface{}{
		"scenario":    info.ScenarioName,
		"kind":        string(action.Kind),
		"name":        action.Meta.Name,
		"iteration":   execCtx.CurrentIteration(),
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		err = scenario.NewBackendError(action.Kind, err)
		logger.Warn(ctx, "step failed", "kind", string(action.Kind), "name", action.Meta.Name, "error", err)
		payload["error"] = err.Error()
		e.publish(ctx, ports.EventStepFailed, payload)
		return scenario.ResultRecord{}, err
	}
	e.publish(ctx, ports.EventStepCompleted, payload)
	return rec, nil
}

func (e *Engine[S, P]) recordStep(ctx context.Context, kind scenario.Kind, err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	e.metrics.IncCounter(ctx, ports.MetricStepExecutions, map[string]string{"kind": string(kind), "status": status})
	e.metrics.ObserveHistogram(ctx, ports.MetricStepDuration, elapsed.Seconds(), map[string]string{"kind": string(kind)})
}
