package engine

import (
	"time"

	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

type settings struct {
	logger  ports.Logger
	metrics ports.MetricsCollector
	events  ports.EventPublisher
	now     func() time.Time
	sleep   func(time.Duration)
}

func defaultSettings() settings {
	return settings{
		logger:  logging.NewNoOpLogger(),
		metrics: ports.NoOpMetrics{},
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Option configures an Engine.
type Option func(*settings)

// WithLogger injects a logger into the engine.
func WithLogger(logger ports.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics injects a metrics collector.
func WithMetrics(metrics ports.MetricsCollector) Option {
	return func(s *settings) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithEvents injects an event publisher.
func WithEvents(events ports.EventPublisher) Option {
	return func(s *settings) {
		s.events = events
	}
}

// WithClock overrides the clock used to measure step durations. Artifact
// names take their timestamp from the handler environment instead.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSleep overrides how the remote-driver settle delay is waited out.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *settings) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}
