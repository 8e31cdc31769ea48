package scenario

import (
	"fmt"
	"strings"
)

// Scenario is the declarative description of a browser flow: an optional
// precondition phase followed by IterationCount runs of Steps against MainURL.
type Scenario struct {
	Name           string
	Skip           bool
	OnlyBrowser    []Backend
	MainURL        string
	IterationCount int
	Precondition   *Precondition
	Steps          []Action
}

// Precondition is the best-effort setup phase run once before iterations.
type Precondition struct {
	URL   string
	Steps []Action
}

// Validate enforces the structural invariants of a scenario. Extension kinds
// listed in extensions are accepted as step tags.
func (s Scenario) Validate(extensions map[Kind]struct{}) error {
	if strings.TrimSpace(s.Name) == "" {
		return newMissingFieldError("name")
	}
	if s.IterationCount < 0 {
		return newValidationError("iteration must be non-negative", map[string]interface{}{
			"iteration": s.IterationCount,
		})
	}
	if strings.TrimSpace(s.MainURL) == "" {
		return newMissingFieldError("url")
	}
	if s.Precondition != nil {
		if strings.TrimSpace(s.Precondition.URL) == "" {
			return newMissingFieldError("precondition.url")
		}
		for i, action := range s.Precondition.Steps {
			if err := action.Validate(extensions); err != nil {
				return fmt.Errorf("precondition step %d: %w", i, err)
			}
		}
	}
	for i, action := range s.Steps {
		if err := action.Validate(extensions); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// Kinds returns every action kind the scenario needs, including the implicit
// navigate issued at the start of each phase.
func (s Scenario) Kinds() []Kind {
	lists := [][]Action{{NewNavigate(s.MainURL)}, s.Steps}
	if s.Precondition != nil {
		lists = append(lists, s.Precondition.Steps)
	}
	return KindSet(lists...)
}

// RunsOn reports whether the scenario may execute on backend b.
func (s Scenario) RunsOn(b Backend) bool {
	if len(s.OnlyBrowser) == 0 {
		return true
	}
	for _, allowed := range s.OnlyBrowser {
		if allowed == b {
			return true
		}
	}
	return false
}
