package ports

import (
	"context"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

// HandlerOptions is the per-call environment handed to a handler. Context is
// the snapshot at the step boundary; handlers return a result and never
// produce a context themselves.
type HandlerOptions struct {
	ImageDir string
	Backend  scenario.Backend
	Context  scenario.ExecutionContext
}

// Handler realizes one action kind against a backend page of type P. It must
// return an error rather than silently doing nothing when the action cannot
// be satisfied. Handlers must not retain page after returning.
type Handler[P any] func(ctx context.Context, page P, action scenario.Action, opts HandlerOptions) (scenario.ResultRecord, error)

// HandlerRegistry resolves handlers by action kind. Covers reports every kind
// in kinds that has no handler.
type HandlerRegistry[P any] interface {
	Lookup(kind scenario.Kind) (Handler[P], bool)
	Covers(kinds []scenario.Kind) error
}

// SessionAdapter acquires and releases browser sessions of type S and opens
// pages of type P on them. Backends where session and page coincide return
// the session itself from OpenPage.
type SessionAdapter[S any, P any] interface {
	Launch(ctx context.Context, backend scenario.Backend, opts scenario.LaunchOptions) (S, error)
	OpenPage(ctx context.Context, backend scenario.Backend, session S) (P, error)
	Close(ctx context.Context, session S) error
}
