package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/pprunner/internal/backend"
	"github.com/alexisbeaulieu97/pprunner/internal/backend/webdriver"
	"github.com/alexisbeaulieu97/pprunner/internal/dispatch"
	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/engine"
	"github.com/alexisbeaulieu97/pprunner/internal/handler"
	configinfra "github.com/alexisbeaulieu97/pprunner/internal/infrastructure/config"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/metrics"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
	"github.com/alexisbeaulieu97/pprunner/internal/tui"
)

type runOptions struct {
	Path            string
	ImageDir        string
	Parallel        int
	Targets         []string
	DisableHeadless bool
	Browser         string
	WebDriverURL    string
	MetricsFile     string
	Seed            int64
	LogLevel        string
	NonInteractive  bool
	Stdout          io.Writer
	Stderr          io.Writer
}

var runCmdRunner = runRun

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every scenario file under a cases directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.LogLevel = root.level()
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))
			opts.Targets = splitTargets(opts.Targets)
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()

			if err := validateRunOptions(opts); err != nil {
				return err
			}

			return runCmdRunner(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "path", "p", "./cases", "Scenario file or directory searched recursively for .yaml files")
	cmd.Flags().StringVarP(&opts.ImageDir, "image-dir", "i", "./images", "Directory receiving screenshots and dumps")
	cmd.Flags().IntVarP(&opts.Parallel, "parallel", "j", 0, "Scenario files run at once (0 runs them one by one)")
	cmd.Flags().StringSliceVarP(&opts.Targets, "target", "t", nil, "Only run scenarios with these names (comma separated)")
	cmd.Flags().BoolVar(&opts.DisableHeadless, "disable-headless", false, "Show the browser window")
	cmd.Flags().StringVarP(&opts.Browser, "browser", "b", string(scenario.DefaultBackend), "Browser backend (chrome, firefox, ie)")
	cmd.Flags().StringVar(&opts.WebDriverURL, "webdriver-url", webdriver.DefaultURL, "Remote WebDriver endpoint used by the ie backend")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Seed for generated input values (0 picks one from the clock)")

	return cmd
}

func runRun(ctx context.Context, opts runOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	kind, err := scenario.ParseBackend(opts.Browser)
	if err != nil {
		return err
	}

	console, err := newLogger(opts.Stderr, opts.LogLevel)
	if err != nil {
		return err
	}

	// The progress view owns the terminal while it runs.
	var log ports.Logger = console
	var buffer *logging.Buffer
	if !opts.NonInteractive {
		buffer = logging.NewBuffer(0)
		log = buffer.Logger()
	}

	files, err := dispatch.Discover(opts.Path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no scenario files found under %s", opts.Path)
	}

	collector := metrics.NewCollector(log)
	runner, err := backend.New(kind, backend.Config{
		Env:    handler.NewEnv(opts.Seed),
		Logger: log,
		Engine: []engine.Option{
			engine.WithMetrics(collector),
			engine.WithEvents(events.NewLoggingPublisher(log)),
		},
	})
	if err != nil {
		return err
	}
	loader := configinfra.NewYAMLLoader(log, configinfra.WithExtensions(runner.Extensions()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dispatcher := func(onStart func(string), onResult func(dispatch.Result)) ([]dispatch.Result, error) {
		return dispatch.New(loader, runner,
			dispatch.WithLogger(log),
			dispatch.WithMetrics(collector),
			dispatch.WithParallel(opts.Parallel),
			dispatch.WithTargets(opts.Targets),
			dispatch.WithRunOptions(scenario.RunOptions{
				Backend:  kind,
				ImageDir: opts.ImageDir,
				Launch:   launchOptions(kind, opts),
			}),
			dispatch.WithProgress(onStart, onResult),
		).Run(ctx, files)
	}

	model := tui.NewModel(string(kind), files, opts.NonInteractive).OnCancel(cancel)
	results, runErr := tui.Run(model, opts.Stdout, dispatcher)
	if buffer != nil {
		buffer.Flush(console)
	}

	if opts.MetricsFile != "" {
		if err := collector.WriteTextfile(opts.MetricsFile); err != nil {
			console.Error(ctx, "metrics not written", "error", err)
		}
	}

	summary, failures := dispatch.Summarize(results)
	console.Info(ctx, "run finished",
		"passed", summary.Passed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"invalid", summary.Invalid,
	)

	if runErr != nil {
		return runErr
	}
	if failures != nil {
		return fmt.Errorf("%d of %d scenario files failed:\n%w", summary.Failed+summary.Invalid, len(results), failures)
	}
	return nil
}

func launchOptions(kind scenario.Backend, opts runOptions) scenario.LaunchOptions {
	launch := scenario.LaunchOptions{
		Headless:          !opts.DisableHeadless,
		IgnoreHTTPSErrors: true,
		Args:              []string{"--no-sandbox", "--disable-setuid-sandbox"},
	}
	if kind.IsRemoteDriver() {
		launch.RemoteURL = opts.WebDriverURL
	}
	return launch
}
