package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pprunner/internal/config"
	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	apperrors "github.com/alexisbeaulieu97/pprunner/pkg/errors"
)

type fakeLoader struct {
	docs    map[string]*config.Document
	invalid map[string]error
}

func (l *fakeLoader) Inspect(_ context.Context, path string) (*config.Document, error) {
	doc, ok := l.docs[path]
	if !ok {
		return nil, apperrors.NewParseError(path, 0, os.ErrNotExist)
	}
	return doc, nil
}

func (l *fakeLoader) Scenario(_ context.Context, path string, doc *config.Document) (*scenario.Scenario, error) {
	if err := l.invalid[path]; err != nil {
		return nil, err
	}
	return &scenario.Scenario{Name: doc.Name, MainURL: doc.URL, IterationCount: doc.Iteration}, nil
}

type fakeRunner struct {
	mu       sync.Mutex
	ran      []string
	fail     map[string]error
	active   int32
	peak     int32
	hold     time.Duration
	received scenario.RunOptions
}

func (r *fakeRunner) Execute(_ context.Context, sc scenario.Scenario, opts scenario.RunOptions) (scenario.ExecutionContext, error) {
	n := atomic.AddInt32(&r.active, 1)
	defer atomic.AddInt32(&r.active, -1)
	for {
		peak := atomic.LoadInt32(&r.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&r.peak, peak, n) {
			break
		}
	}
	time.Sleep(r.hold)

	r.mu.Lock()
	r.ran = append(r.ran, sc.Name)
	r.received = opts
	r.mu.Unlock()
	return scenario.NewExecutionContext(scenario.Info{ScenarioName: sc.Name, Options: opts}), r.fail[sc.Name]
}

func doc(name string) *config.Document {
	return &config.Document{Name: name, URL: "http://app.test", Iteration: 1}
}

func TestRunAppliesSkipRules(t *testing.T) {
	skipped := doc("skipped")
	skipped.Skip = true
	ieOnly := doc("ie-only")
	ieOnly.OnlyBrowser = []string{"IE"}

	loader := &fakeLoader{docs: map[string]*config.Document{
		"a.yaml": doc("login"),
		"b.yaml": skipped,
		"c.yaml": ieOnly,
		"d.yaml": doc(""),
		"e.yaml": doc("checkout"),
	}}
	runner := &fakeRunner{}
	d := New(loader, runner,
		WithTargets([]string{"login", " ie-only ", ""}),
		WithRunOptions(scenario.RunOptions{Backend: scenario.BackendChrome, ImageDir: "shots"}))

	results, err := d.Run(context.Background(), []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml"})
	require.NoError(t, err)

	require.Equal(t, StatusPassed, results[0].Status)
	require.Equal(t, "login", results[0].Context.Info().ScenarioName)
	require.Equal(t, ReasonSkipFlag, results[1].Reason)
	require.Equal(t, ReasonOnlyBrowser, results[2].Reason)
	require.Equal(t, ReasonMissingName, results[3].Reason)
	require.Equal(t, ReasonNotTargeted, results[4].Reason)
	require.Equal(t, []string{"login"}, runner.ran)
	require.Equal(t, "shots", runner.received.ImageDir)
}

func TestRunOnlyBrowserMatches(t *testing.T) {
	ieOnly := doc("ie-only")
	ieOnly.OnlyBrowser = []string{"ie"}
	loader := &fakeLoader{docs: map[string]*config.Document{"a.yaml": ieOnly}}
	runner := &fakeRunner{}

	results, err := New(loader, runner, WithRunOptions(scenario.RunOptions{Backend: scenario.BackendIE})).
		Run(context.Background(), []string{"a.yaml"})
	require.NoError(t, err)
	require.Equal(t, StatusPassed, results[0].Status)
}

func TestRunsOn(t *testing.T) {
	tests := []struct {
		name    string
		only    []string
		backend scenario.Backend
		want    bool
	}{
		{"no restriction", nil, scenario.BackendIE, true},
		{"case and spaces ignored", []string{" Firefox "}, scenario.BackendFirefox, true},
		{"empty backend means chrome", []string{"chrome"}, "", true},
		{"other browser", []string{"firefox", "ie"}, scenario.BackendChrome, false},
		{"unknown name never matches", []string{"safari"}, scenario.BackendChrome, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, runsOn(tt.only, tt.backend))
		})
	}
}

func TestRunReportsFailuresWithoutStopping(t *testing.T) {
	loader := &fakeLoader{
		docs: map[string]*config.Document{
			"a.yaml": doc("broken"),
			"b.yaml": doc("fine"),
			"c.yaml": doc("invalid"),
		},
		invalid: map[string]error{"c.yaml": apperrors.NewValidationError("url", "missing", nil)},
	}
	cause := errors.New("click failed")
	runner := &fakeRunner{fail: map[string]error{"broken": cause}}

	results, err := New(loader, runner).Run(context.Background(), []string{"a.yaml", "b.yaml", "c.yaml", "missing.yaml"})
	require.NoError(t, err)

	require.Equal(t, StatusFailed, results[0].Status)
	var execErr *apperrors.ExecutionError
	require.ErrorAs(t, results[0].Err, &execErr)
	require.Equal(t, "a.yaml", execErr.Path)
	require.ErrorIs(t, results[0].Err, cause)

	require.Equal(t, StatusPassed, results[1].Status)
	require.Equal(t, StatusInvalid, results[2].Status)
	require.Equal(t, StatusInvalid, results[3].Status)

	summary, joined := Summarize(results)
	require.Equal(t, Summary{Passed: 1, Failed: 1, Invalid: 2}, summary)
	require.ErrorIs(t, joined, cause)
}

func TestRunBoundsParallelism(t *testing.T) {
	docs := map[string]*config.Document{}
	var files []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		path := name + ".yaml"
		docs[path] = doc(name)
		files = append(files, path)
	}
	runner := &fakeRunner{hold: 20 * time.Millisecond}

	var started, finished []string
	d := New(&fakeLoader{docs: docs}, runner, WithParallel(2), WithProgress(
		func(path string) { started = append(started, path) },
		func(r Result) { finished = append(finished, r.Path) },
	))
	results, err := d.Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, 6)
	require.LessOrEqual(t, atomic.LoadInt32(&runner.peak), int32(2))
	require.Len(t, started, 6)
	require.Len(t, finished, 6)
	for i, r := range results {
		require.Equal(t, files[i], r.Path)
	}
}

func TestRunSequentialByDefault(t *testing.T) {
	docs := map[string]*config.Document{"a.yaml": doc("a"), "b.yaml": doc("b"), "c.yaml": doc("c")}
	runner := &fakeRunner{hold: 5 * time.Millisecond}

	_, err := New(&fakeLoader{docs: docs}, runner).Run(context.Background(), []string{"a.yaml", "b.yaml", "c.yaml"})
	require.NoError(t, err)
	require.Equal(t, int32(1), runner.peak)
	require.Equal(t, []string{"a", "b", "c"}, runner.ran)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(&fakeLoader{}, &fakeRunner{}).Run(ctx, []string{"a.yaml", "b.yaml"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "cancelled", results[0].Reason)
	require.Equal(t, "b.yaml", results[1].Path)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", filepath.Join("nested", "c.yaml")} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))
	}

	files, err := Discover(root)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.yml"),
		filepath.Join(root, "b.yaml"),
		filepath.Join(root, "nested", "c.yaml"),
	}, files)

	single, err := Discover(filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	require.Len(t, single, 1)

	_, err = Discover(filepath.Join(root, "missing"))
	require.Error(t, err)
}
