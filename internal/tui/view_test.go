package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pprunner/internal/dispatch"
)

func TestViewRendersBasicLayout(t *testing.T) {
	m := NewModel("chrome", []string{"dir/login.yaml", "dir/signup.yaml"}, true)
	m.files["dir/login.yaml"] = fileState{status: string(dispatch.StatusFailed), scenario: "Login", err: errors.New("element not found")}
	m.files["dir/signup.yaml"] = fileState{status: StatusRunning}
	m.completed = 1
	m.counts[dispatch.StatusFailed] = 1

	view := m.View()
	require.Contains(t, view, "pprunner")
	require.Contains(t, view, "chrome")
	require.Contains(t, view, "Login (login.yaml)")
	require.Contains(t, view, "signup.yaml")
	require.Contains(t, view, "element not found")
	require.Contains(t, view, "1/2 files")
}

func TestViewShowsSummaryWhenFinished(t *testing.T) {
	m := NewModel("", []string{"a.yaml"}, true)
	m.finished = true
	m.completed = 1
	m.counts[dispatch.StatusPassed] = 1

	view := m.View()
	require.Contains(t, view, "Scenarios: 1/1 completed")
	require.Contains(t, view, "Run finished successfully")
}

func TestStatusIcon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   string
		expected string
	}{
		{"passed shows checkmark", string(dispatch.StatusPassed), "✓"},
		{"running shows hourglass", StatusRunning, "⏳"},
		{"failed shows cross", string(dispatch.StatusFailed), "✗"},
		{"invalid shows bang", string(dispatch.StatusInvalid), "!"},
		{"skipped shows circle-slash", string(dispatch.StatusSkipped), "⊘"},
		{"pending shows ellipsis", StatusPending, "…"},
		{"empty shows ellipsis", "", "…"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Contains(t, StatusIcon(tt.status), tt.expected)
		})
	}
}

func TestRunStaticPrintsFinalView(t *testing.T) {
	var out bytes.Buffer
	m := NewModel("firefox", []string{"a.yaml", "b.yaml"}, true)

	want := []dispatch.Result{
		{Path: "a.yaml", Status: dispatch.StatusPassed},
		{Path: "b.yaml", Status: dispatch.StatusSkipped, Reason: dispatch.ReasonOnlyBrowser},
	}
	results, err := Run(m, &out, func(onStart func(string), onResult func(dispatch.Result)) ([]dispatch.Result, error) {
		for _, res := range want {
			onStart(res.Path)
			onResult(res)
		}
		return want, nil
	})

	require.NoError(t, err)
	require.Equal(t, want, results)
	require.Contains(t, out.String(), "2/2 files")
	require.Contains(t, out.String(), dispatch.ReasonOnlyBrowser)
	require.Contains(t, out.String(), "Passed: 1  Failed: 0  Skipped: 1  Invalid: 0")
}

func TestRunStaticReturnsRunError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("cancelled")
	_, err := Run(NewModel("", nil, true), &out, func(func(string), func(dispatch.Result)) ([]dispatch.Result, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}
