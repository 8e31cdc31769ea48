package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// Collector implements ports.MetricsCollector on a private Prometheus
// registry. Vectors are created on first use with the label names of that
// first observation; later observations must use the same label set.
type Collector struct {
	registry   *prometheus.Registry
	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	logger     ports.Logger
}

// NewCollector returns a Collector with its own registry.
func NewCollector(logger ports.Logger) *Collector {
	return &Collector{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		logger:     logger,
	}
}

// Registry exposes the underlying registry for gathering.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// IncCounter implements ports.MetricsCollector.
func (c *Collector) IncCounter(ctx context.Context, name string, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: helpFor(name)}, labelNames(labels))
		if !c.register(ctx, name, vec) {
			c.mu.Unlock()
			return
		}
		c.counters[name] = vec
	}
	c.mu.Unlock()

	counter, err := vec.GetMetricWith(labels)
	if err != nil {
		c.warn(ctx, name, err)
		return
	}
	counter.Inc()
}

// SetGauge implements ports.MetricsCollector.
func (c *Collector) SetGauge(ctx context.Context, name string, value float64, labels map[string]string) {
	if gauge := c.gauge(ctx, name, labels); gauge != nil {
		gauge.Set(value)
	}
}

// AddGauge implements ports.MetricsCollector.
func (c *Collector) AddGauge(ctx context.Context, name string, delta float64, labels map[string]string) {
	if gauge := c.gauge(ctx, name, labels); gauge != nil {
		gauge.Add(delta)
	}
}

func (c *Collector) gauge(ctx context.Context, name string, labels map[string]string) prometheus.Gauge {
	c.mu.Lock()
	vec, ok := c.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: helpFor(name)}, labelNames(labels))
		if !c.register(ctx, name, vec) {
			c.mu.Unlock()
			return nil
		}
		c.gauges[name] = vec
	}
	c.mu.Unlock()

	gauge, err := vec.GetMetricWith(labels)
	if err != nil {
		c.warn(ctx, name, err)
		return nil
	}
	return gauge
}

// ObserveHistogram implements ports.MetricsCollector.
func (c *Collector) ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    helpFor(name),
			Buckets: prometheus.DefBuckets,
		}, labelNames(labels))
		if !c.register(ctx, name, vec) {
			c.mu.Unlock()
			return
		}
		c.histograms[name] = vec
	}
	c.mu.Unlock()

	observer, err := vec.GetMetricWith(labels)
	if err != nil {
		c.warn(ctx, name, err)
		return
	}
	observer.Observe(value)
}

// WriteTextfile writes the current state in the Prometheus text format, for
// node_exporter's textfile collector or CI artifacts.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

func (c *Collector) register(ctx context.Context, name string, collector prometheus.Collector) bool {
	if err := c.registry.Register(collector); err != nil {
		c.warn(ctx, name, err)
		return false
	}
	return true
}

func (c *Collector) warn(ctx context.Context, name string, err error) {
	if c.logger != nil {
		c.logger.Warn(ctx, "metric update dropped", "metric", name, "error", err)
	}
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var help = map[string]string{
	ports.MetricStepExecutions: "Scenario steps executed, by action kind and outcome.",
	ports.MetricStepDuration:   "Handler latency per action kind.",
	ports.MetricScenarioRuns:   "Scenario runs by outcome.",
	ports.MetricActiveRuns:     "Scenario runs currently holding a browser session.",
	ports.MetricScenarioFiles:  "Scenario files processed, by outcome.",
}

func helpFor(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return strings.ReplaceAll(name, "_", " ")
}

var _ ports.MetricsCollector = (*Collector)(nil)
