package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

func TestCollectorCountsByLabel(t *testing.T) {
	c := NewCollector(logging.NewNoOpLogger())
	ctx := context.Background()

	c.IncCounter(ctx, ports.MetricStepExecutions, map[string]string{"kind": "click", "status": "success"})
	c.IncCounter(ctx, ports.MetricStepExecutions, map[string]string{"kind": "click", "status": "success"})
	c.IncCounter(ctx, ports.MetricStepExecutions, map[string]string{"kind": "input", "status": "failure"})

	vec := c.counters[ports.MetricStepExecutions]
	require.Equal(t, 2.0, testutil.ToFloat64(vec.WithLabelValues("click", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("input", "failure")))
}

func TestCollectorGaugeAndHistogram(t *testing.T) {
	c := NewCollector(nil)
	ctx := context.Background()

	c.SetGauge(ctx, ports.MetricActiveRuns, 3, nil)
	c.AddGauge(ctx, ports.MetricActiveRuns, -1, nil)
	c.ObserveHistogram(ctx, ports.MetricStepDuration, 0.25, map[string]string{"kind": "navigate"})

	require.Equal(t, 2.0, testutil.ToFloat64(c.gauges[ports.MetricActiveRuns]))
	count, err := testutil.GatherAndCount(c.Registry(), ports.MetricStepDuration)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCollectorDropsMismatchedLabels(t *testing.T) {
	buffer := logging.NewBuffer(10)
	c := NewCollector(buffer.Logger())
	ctx := context.Background()

	c.IncCounter(ctx, ports.MetricScenarioRuns, map[string]string{"status": "success"})
	c.IncCounter(ctx, ports.MetricScenarioRuns, map[string]string{"state": "oops"})

	entries := buffer.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "metric update dropped", entries[0].Msg)
}

func TestWriteTextfile(t *testing.T) {
	c := NewCollector(nil)
	c.IncCounter(context.Background(), ports.MetricScenarioRuns, map[string]string{"status": "success"})

	path := filepath.Join(t.TempDir(), "pprunner.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `pprunner_scenario_runs_total{status="success"} 1`)
}
