package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case FileStartMsg:
		m.ensureFile(msg.Path)
		state := m.files[msg.Path]
		if isFinal(state.status) {
			return m, nil
		}
		state.status = StatusRunning
		state.started = msg.Time
		m.files[msg.Path] = state
		return m, nil
	case FileDoneMsg:
		res := msg.Result
		if res.Path == "" {
			return m, nil
		}
		m.ensureFile(res.Path)
		previous := m.files[res.Path]
		m.files[res.Path] = fileState{
			status:   string(res.Status),
			scenario: res.Scenario,
			reason:   res.Reason,
			err:      res.Err,
			started:  previous.started,
			duration: res.Duration,
		}
		if !isFinal(previous.status) {
			m.completed++
			m.counts[res.Status]++
			m.markFinishedIfComplete()
		}
		return m, nil
	case DoneMsg:
		m.finished = true
		if m.nonInteractive {
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			if m.onCancel != nil {
				m.onCancel()
			}
			return m, nil
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
