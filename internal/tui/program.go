package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/pprunner/internal/dispatch"
)

// RunFunc executes the dispatch run, reporting progress through the hooks.
type RunFunc func(onStart func(path string), onResult func(dispatch.Result)) ([]dispatch.Result, error)

// Run drives fn while rendering m. Interactive models run a Bubbletea program
// on out; non-interactive ones are updated in place and printed once at the end.
func Run(m Model, out io.Writer, fn RunFunc) ([]dispatch.Result, error) {
	if m.nonInteractive {
		return runStatic(m, out, fn)
	}

	program := tea.NewProgram(m, tea.WithOutput(out))
	var programErr error
	done := make(chan struct{})
	go func() {
		_, programErr = program.Run()
		close(done)
	}()

	results, err := fn(
		func(path string) { program.Send(FileStartMsg{Path: path, Time: time.Now()}) },
		func(res dispatch.Result) { program.Send(FileDoneMsg{Result: res}) },
	)
	program.Send(DoneMsg{Err: err})
	<-done
	if programErr != nil {
		return results, programErr
	}
	return results, err
}

func runStatic(m Model, out io.Writer, fn RunFunc) ([]dispatch.Result, error) {
	var mu sync.Mutex
	apply := func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		updated, _ := m.Update(msg)
		if next, ok := updated.(Model); ok {
			m = next
		}
	}

	results, err := fn(
		func(path string) { apply(FileStartMsg{Path: path, Time: time.Now()}) },
		func(res dispatch.Result) { apply(FileDoneMsg{Result: res}) },
	)
	apply(DoneMsg{Err: err})
	fmt.Fprintln(out, m.View())
	return results, err
}
