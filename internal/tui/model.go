package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/pprunner/internal/dispatch"
)

// Statuses a file holds before the dispatcher reports its outcome.
const (
	StatusPending = "pending"
	StatusRunning = "running"
)

// FileStartMsg indicates a worker picked up a scenario file.
type FileStartMsg struct {
	Path string
	Time time.Time
}

// FileDoneMsg reports the outcome of one scenario file.
type FileDoneMsg struct {
	Result dispatch.Result
}

// DoneMsg signals that the dispatcher returned.
type DoneMsg struct {
	Err error
}

type fileState struct {
	status   string
	scenario string
	reason   string
	err      error
	started  time.Time
	duration time.Duration
}

// Model contains the Bubbletea state for a scenario run.
type Model struct {
	title          string
	files          map[string]fileState
	order          []string
	counts         map[dispatch.Status]int
	spinner        spinner.Model
	total          int
	completed      int
	finished       bool
	cancelled      bool
	nonInteractive bool
	onCancel       func()
}

// NewModel constructs a model tracking files in the given order.
func NewModel(title string, files []string, nonInteractive bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle

	m := Model{
		title:          title,
		files:          make(map[string]fileState, len(files)),
		order:          make([]string, 0, len(files)),
		counts:         make(map[dispatch.Status]int),
		spinner:        s,
		nonInteractive: nonInteractive,
	}
	for _, path := range files {
		m.ensureFile(path)
	}
	return m
}

// OnCancel registers fn to run when the user interrupts the run.
func (m Model) OnCancel(fn func()) Model {
	m.onCancel = fn
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	if m.nonInteractive {
		return nil
	}
	return m.spinner.Tick
}

// TotalFiles returns the number of tracked files.
func (m Model) TotalFiles() int {
	return m.total
}

// CompletedFiles returns the number of files with a final status.
func (m Model) CompletedFiles() int {
	return m.completed
}

// Count returns how many files ended with status.
func (m Model) Count(status dispatch.Status) int {
	return m.counts[status]
}

// IsFinished reports whether the run has ended.
func (m Model) IsFinished() bool {
	return m.finished
}

// Cancelled reports whether the user interrupted the run.
func (m Model) Cancelled() bool {
	return m.cancelled
}

func (m *Model) ensureFile(path string) {
	if path == "" {
		return
	}
	if _, exists := m.files[path]; !exists {
		m.files[path] = fileState{status: StatusPending}
		m.order = append(m.order, path)
		m.total++
	}
}

func (m *Model) markFinishedIfComplete() {
	if m.total > 0 && m.completed >= m.total {
		m.finished = true
	}
}

func isFinal(status string) bool {
	return status != StatusPending && status != StatusRunning && status != ""
}
