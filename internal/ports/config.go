package ports

import (
	"context"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

// ScenarioLoader turns a scenario document into a validated domain Scenario.
// Implementations render environment placeholders before decoding and report
// failures as pkg/errors ParseError or ValidationError values.
type ScenarioLoader interface {
	Load(ctx context.Context, path string) (*scenario.Scenario, error)
}
