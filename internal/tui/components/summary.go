package components

import (
	"fmt"
	"strings"
)

// SummaryData aggregates counts for rendering summaries.
type SummaryData struct {
	Total     int
	Completed int
	Passed    int
	Failed    int
	Skipped   int
	Invalid   int
	Finished  bool
	Cancelled bool
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Scenarios: %d/%d completed", s.data.Completed, s.data.Total))
	}
	if s.data.Completed > 0 {
		lines = append(lines, fmt.Sprintf("Passed: %d  Failed: %d  Skipped: %d  Invalid: %d",
			s.data.Passed, s.data.Failed, s.data.Skipped, s.data.Invalid))
	}

	switch {
	case s.data.Cancelled:
		lines = append(lines, "Run cancelled")
	case s.data.Finished && s.data.Total > 0:
		switch {
		case s.data.Failed > 0 || s.data.Invalid > 0:
			lines = append(lines, "Run finished with failures")
		case s.data.Completed < s.data.Total:
			lines = append(lines, "Run finished with pending scenarios")
		default:
			lines = append(lines, "Run finished successfully")
		}
	}

	return strings.Join(lines, "\n")
}
