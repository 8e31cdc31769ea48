package ports

import "context"

// Metric names recorded by the engine.
const (
	MetricStepExecutions = "pprunner_step_executions_total"
	MetricStepDuration   = "pprunner_step_duration_seconds"
	MetricScenarioRuns   = "pprunner_scenario_runs_total"
	MetricActiveRuns     = "pprunner_active_runs"
	MetricScenarioFiles  = "pprunner_scenario_files_total"
)

// MetricsCollector records quantitative observability signals. Labels used:
//   - pprunner_step_executions_total{kind="...", status="success|failure"}
//   - pprunner_step_duration_seconds{kind="..."}
//   - pprunner_scenario_runs_total{status="success|failure|skipped"}
//   - pprunner_active_runs
//   - pprunner_scenario_files_total{status="passed|failed|skipped|invalid"}
type MetricsCollector interface {
	IncCounter(ctx context.Context, name string, labels map[string]string)
	SetGauge(ctx context.Context, name string, value float64, labels map[string]string)
	AddGauge(ctx context.Context, name string, delta float64, labels map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string)
}

// NoOpMetrics discards every observation.
type NoOpMetrics struct{}

// IncCounter implements MetricsCollector.
func (NoOpMetrics) IncCounter(context.Context, string, map[string]string) {}

// SetGauge implements MetricsCollector.
func (NoOpMetrics) SetGauge(context.Context, string, float64, map[string]string) {}

// AddGauge implements MetricsCollector.
func (NoOpMetrics) AddGauge(context.Context, string, float64, map[string]string) {}

// ObserveHistogram implements MetricsCollector.
func (NoOpMetrics) ObserveHistogram(context.Context, string, float64, map[string]string) {}
