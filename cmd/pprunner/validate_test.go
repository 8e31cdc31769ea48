package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const validScenario = `name: login
url: "{{hostUrl}}/login"
iteration: 2
precondition:
  url: "{{hostUrl}}/logout"
  steps:
    - action:
        type: wait
        duration: 100
steps:
  - action:
      type: input
      selector: "#email"
      value: "{{userId}}"
  - action:
      type: ensure
      location:
        regexp: "/home$"
`

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "login.yaml", validScenario)

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"validate", dir})

	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "✓")
	require.Contains(t, buf.String(), "1 scenario files are valid")
}

func TestValidateCommandReportsErrors(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "login.yaml", validScenario)
	writeCase(t, dir, "nested/bad.yaml", "name: bad\nurl: http://x\nsteps:\n  - action:\n      type: wait\n      duration: -5\n")

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"validate", dir})

	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 scenario files are invalid")
	require.Contains(t, buf.String(), "✗")
	require.Contains(t, buf.String(), "bad.yaml")
}

func TestValidateCommandRejectsMissingPath(t *testing.T) {
	err := executeCommand(newRootCmd(), "validate", "/path/does/not/exist")
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}
