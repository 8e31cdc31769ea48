package ports

import "context"

const (
	// EventScenarioStarted is emitted once the session has been acquired.
	EventScenarioStarted = "scenario.started"
	// EventScenarioCompleted is emitted after every iteration succeeded.
	EventScenarioCompleted = "scenario.completed"
	// EventScenarioFailed is emitted when a run terminates with an error.
	EventScenarioFailed = "scenario.failed"
	// EventPreconditionFailed is emitted when the precondition phase errors.
	EventPreconditionFailed = "precondition.failed"
	// EventIterationStarted is emitted before an iteration navigates.
	EventIterationStarted = "iteration.started"
	// EventStepCompleted is emitted when a handler returns a result.
	EventStepCompleted = "step.completed"
	// EventStepFailed is emitted when a handler returns an error.
	EventStepFailed = "step.failed"
)

// DomainEvent represents a significant occurrence during a run.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Implementations must be
// thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events.
type Subscription interface {
	Unsubscribe()
}
