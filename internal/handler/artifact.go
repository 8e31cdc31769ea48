package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// Env carries the collaborators shared by every backend handler set.
type Env struct {
	Values *Resolver
	Now    func() time.Time
	Sleep  func(time.Duration)
	Logger ports.Logger
}

// NewEnv returns an Env with a resolver seeded by seed and the real clock.
func NewEnv(seed int64) Env {
	return Env{Values: NewResolver(seed), Now: time.Now, Sleep: time.Sleep}
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// ScreenshotLabel returns the label for a screenshot action.
func ScreenshotLabel(action scenario.Action) string {
	if action.Screenshot != nil && action.Screenshot.Name != "" {
		return action.Screenshot.Name
	}
	return action.Label()
}

// DumpLabel returns the label for a dump action, falling back to "dump".
func DumpLabel(action scenario.Action) string {
	if action.Meta.Name != "" {
		return action.Meta.Name
	}
	return "dump"
}

// WriteArtifact stores data as {backend}-{timestamp}-{label}.{ext} under the
// image directory of opts and returns a result pointing at the file.
func (e Env) WriteArtifact(action scenario.Action, opts ports.HandlerOptions, label string, kind scenario.ArtifactKind, data []byte) (scenario.ResultRecord, error) {
	dir := opts.ImageDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("create image dir: %w", err)
	}
	path := scenario.ArtifactPath(dir, opts.Backend, e.now(), label, kind)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return scenario.ResultRecord{}, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return scenario.NewResult(action, "", path), nil
}

// WriteDump stores html as a dump artifact and logs the page title next to the
// file so dumps can be told apart without opening them.
func (e Env) WriteDump(ctx context.Context, action scenario.Action, opts ports.HandlerOptions, html string) (scenario.ResultRecord, error) {
	rec, err := e.WriteArtifact(action, opts, DumpLabel(action), scenario.ArtifactDump, []byte(html))
	if err != nil {
		return rec, err
	}
	if e.Logger != nil {
		e.Logger.Debug(ctx, "markup dumped", "path", rec.Value, "title", PageTitle(html))
	}
	return rec, nil
}
