package engine

import (
	"context"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// screenshot captures a labelled image through the registered screenshot
// handler. Capture failures are logged only so they never replace the error
// being diagnosed.
func (e *Engine[S, P]) screenshot(ctx context.Context, logger ports.Logger, page P, execCtx scenario.ExecutionContext, label string) {
	e.capture(ctx, logger, page, execCtx, scenario.NewScreenshot(label))
}

// dump captures the full rendered markup, labelled through the action meta.
func (e *Engine[S, P]) dump(ctx context.Context, logger ports.Logger, page P, execCtx scenario.ExecutionContext, label string) {
	e.capture(ctx, logger, page, execCtx, scenario.NewDump(label))
}

func (e *Engine[S, P]) capture(ctx context.Context, logger ports.Logger, page P, execCtx scenario.ExecutionContext, action scenario.Action) {
	handler, err := e.lookup(action.Kind)
	if err != nil {
		logger.Warn(ctx, "diagnostic capture unavailable", "kind", string(action.Kind), "error", err)
		return
	}
	info := execCtx.Info()
	rec, err := handler(ctx, page, action, ports.HandlerOptions{
		ImageDir: info.Options.ImageDir,
		Backend:  info.Options.Backend,
		Context:  execCtx,
	})
	if err != nil {
		logger.Warn(ctx, "diagnostic capture failed", "kind", string(action.Kind), "label", action.Label(), "error", err)
		return
	}
	logger.Info(ctx, "diagnostic captured", "kind", string(action.Kind), "path", rec.Value)
}
