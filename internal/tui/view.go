package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/pprunner/internal/dispatch"
	"github.com/alexisbeaulieu97/pprunner/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("pprunner • %s", m.heading())))

	progress := components.NewProgress(m.total).View(m.completed)
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	entries := components.NewFileList(m.order, m.entries()).Entries()
	if len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Scenarios"), m.renderEntries(entries))
	}

	summary := components.NewSummary(components.SummaryData{
		Total:     m.total,
		Completed: m.completed,
		Passed:    m.counts[dispatch.StatusPassed],
		Failed:    m.counts[dispatch.StatusFailed],
		Skipped:   m.counts[dispatch.StatusSkipped],
		Invalid:   m.counts[dispatch.StatusInvalid],
		Finished:  m.finished,
		Cancelled: m.cancelled,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) entries() map[string]components.FileEntry {
	out := make(map[string]components.FileEntry, len(m.files))
	for path, state := range m.files {
		out[path] = components.FileEntry{
			Path:     path,
			Scenario: state.scenario,
			Status:   state.status,
			Reason:   state.reason,
			Err:      state.err,
			Duration: state.duration,
		}
	}
	return out
}

func (m Model) renderEntries(entries []components.FileEntry) string {
	var lines []string
	for _, entry := range entries {
		icon := StatusIcon(entry.Status)
		if entry.Status == StatusRunning && !m.nonInteractive {
			icon = m.spinner.View()
		}
		name := filepath.Base(entry.Path)
		if entry.Scenario != "" {
			name = fmt.Sprintf("%s (%s)", entry.Scenario, name)
		}
		line := fmt.Sprintf(" %s %s", icon, name)
		if detail := entry.Detail(); detail != "" {
			line = fmt.Sprintf("%s: %s", line, detailStyle.Render(detail))
		}
		if entry.Duration > 0 {
			line = fmt.Sprintf("%s [%s]", line, entry.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) heading() string {
	if strings.TrimSpace(m.title) != "" {
		return m.title
	}
	return "Scenarios"
}

// StatusIcon returns the glyph representing a file status.
func StatusIcon(status string) string {
	switch status {
	case string(dispatch.StatusPassed):
		return passedStyle.Render("✓")
	case StatusRunning:
		return runningStyle.Render("⏳")
	case string(dispatch.StatusFailed):
		return failedStyle.Render("✗")
	case string(dispatch.StatusInvalid):
		return invalidStyle.Render("!")
	case string(dispatch.StatusSkipped):
		return skippedStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
