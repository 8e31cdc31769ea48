package scenario

import "encoding/json"

// LaunchOptions are passed to the session adapter when acquiring a browser.
type LaunchOptions struct {
	Headless          bool     `json:"headless"`
	IgnoreHTTPSErrors bool     `json:"ignoreHTTPSErrors"`
	Args              []string `json:"args,omitempty"`
	RemoteURL         string   `json:"remoteURL,omitempty"`
}

// RunOptions describe how a scenario is executed.
type RunOptions struct {
	Backend  Backend       `json:"backend"`
	ImageDir string        `json:"imageDir"`
	Launch   LaunchOptions `json:"launch"`
}

// Info is the immutable header of an execution context.
type Info struct {
	ScenarioName string     `json:"scenarioName"`
	Options      RunOptions `json:"options"`
}

// ExecutionContext is the append-only record of a run. Every mutator returns a
// new value; logs are never shared between two snapshots.
type ExecutionContext struct {
	info         Info
	current      int
	precondition []ResultRecord
	iterations   [][]ResultRecord
}

// NewExecutionContext starts an empty context in the precondition phase.
func NewExecutionContext(info Info) ExecutionContext {
	info.Options.Launch.Args = append([]string(nil), info.Options.Launch.Args...)
	return ExecutionContext{info: info}
}

// Info returns the run header.
func (c ExecutionContext) Info() Info {
	info := c.info
	info.Options.Launch.Args = append([]string(nil), c.info.Options.Launch.Args...)
	return info
}

// CurrentIteration is 0 during the precondition and 1..N during iterations.
func (c ExecutionContext) CurrentIteration() int {
	return c.current
}

// PreconditionSteps returns a copy of the precondition log.
func (c ExecutionContext) PreconditionSteps() []ResultRecord {
	return cloneLog(c.precondition)
}

// IterationCount returns how many iterations have started.
func (c ExecutionContext) IterationCount() int {
	return len(c.iterations)
}

// IterationSteps returns a copy of the log of iteration i (0-based).
func (c ExecutionContext) IterationSteps(i int) []ResultRecord {
	if i < 0 || i >= len(c.iterations) {
		return nil
	}
	return cloneLog(c.iterations[i])
}

// BeginIteration opens a fresh empty log and makes it current.
func (c ExecutionContext) BeginIteration() ExecutionContext {
	next := c.shallow()
	next.iterations = make([][]ResultRecord, len(c.iterations), len(c.iterations)+1)
	copy(next.iterations, c.iterations)
	next.iterations = append(next.iterations, []ResultRecord{})
	next.current = len(next.iterations)
	return next
}

// Append records rec at the end of the current phase log.
func (c ExecutionContext) Append(rec ResultRecord) ExecutionContext {
	next := c.shallow()
	rec = rec.clone()
	if c.current == 0 {
		next.precondition = appendCopy(c.precondition, rec)
		return next
	}
	next.iterations = make([][]ResultRecord, len(c.iterations))
	copy(next.iterations, c.iterations)
	idx := c.current - 1
	next.iterations[idx] = appendCopy(c.iterations[idx], rec)
	return next
}

func (c ExecutionContext) shallow() ExecutionContext {
	return ExecutionContext{
		info:         c.info,
		current:      c.current,
		precondition: c.precondition,
		iterations:   c.iterations,
	}
}

func appendCopy(log []ResultRecord, rec ResultRecord) []ResultRecord {
	out := make([]ResultRecord, len(log), len(log)+1)
	copy(out, log)
	return append(out, rec)
}

func cloneLog(log []ResultRecord) []ResultRecord {
	out := make([]ResultRecord, len(log))
	for i, rec := range log {
		out[i] = rec.clone()
	}
	return out
}

type phaseLog struct {
	Steps []ResultRecord `json:"steps"`
}

type contextSnapshot struct {
	Info             Info       `json:"info"`
	CurrentIteration int        `json:"currentIteration"`
	Precondition     phaseLog   `json:"precondition"`
	Iterations       []phaseLog `json:"iterations"`
}

// MarshalJSON renders the context in its documented snapshot shape.
func (c ExecutionContext) MarshalJSON() ([]byte, error) {
	snap := contextSnapshot{
		Info:             c.Info(),
		CurrentIteration: c.current,
		Precondition:     phaseLog{Steps: cloneLog(c.precondition)},
		Iterations:       make([]phaseLog, len(c.iterations)),
	}
	for i, log := range c.iterations {
		snap.Iterations[i] = phaseLog{Steps: cloneLog(log)}
	}
	return json.Marshal(snap)
}
