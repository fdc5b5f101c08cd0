// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.scm")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	path := writeProgram(t, "(let ((y 1)) y)")
	out, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "value:   1")
	assert.Contains(t, out, "states:  5")
}

func TestRunCommandError(t *testing.T) {
	path := writeProgram(t, "(car '())")
	out, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "error:   car: empty list")
}

func TestRunCommandTopBinding(t *testing.T) {
	path := writeProgram(t, "(if (< x 0) 1 2)")
	out, err := execute(t, "run", "--top", "x", path)
	require.NoError(t, err)
	assert.Contains(t, out, "value:")
}

func TestRunCommandMissingFile(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "absent.scm"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommandParseError(t *testing.T) {
	path := writeProgram(t, "(let ((x 1)")
	_, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommandDotOutput(t *testing.T) {
	path := writeProgram(t, "(let ((y 1)) y)")
	dot := filepath.Join(t.TempDir(), "states.dot")
	_, err := execute(t, "run", "--dot", dot, path)
	require.NoError(t, err)

	raw, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "digraph states {")
}

func TestRunCommandTraceRoundTrip(t *testing.T) {
	path := writeProgram(t, "(let ((y 1)) y)")
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, "run", "--trace", db, path)
	require.NoError(t, err)

	out, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "states=5")
}

func TestRunCommandConfigFile(t *testing.T) {
	prog := writeProgram(t, "(let ((y 1)) y)")
	cfg := filepath.Join(t.TempDir(), "aam.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("order: fifo\n"), 0o644))

	_, err := execute(t, "--config", cfg, "run", prog)
	require.NoError(t, err)
}

func TestRunCommandStrictConfigRejectsTypo(t *testing.T) {
	prog := writeProgram(t, "(let ((y 1)) y)")
	cfg := filepath.Join(t.TempDir(), "aam.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("subsumptoin: true\n"), 0o644))

	_, err := execute(t, "--config", cfg, "--strict-config", "run", prog)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStepCommandBatch(t *testing.T) {
	// test stdin is not a terminal, so step falls back to batch mode
	path := writeProgram(t, "(let ((y 1)) y)")
	out, err := execute(t, "step", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[0] eval (let ((y 1)) y) @ halt")
	assert.Contains(t, out, "value:   1")
}

func TestStepCommandMax(t *testing.T) {
	path := writeProgram(t, "(let ((y 1)) y)")
	out, err := execute(t, "step", "--max", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "stopped after 2 states")
}
