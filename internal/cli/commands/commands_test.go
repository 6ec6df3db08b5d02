// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapcalc/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useMemoryHistory makes commands built in this test keep history in memory.
func useMemoryHistory(t *testing.T) {
	t.Helper()
	config.ResetConfig()
	t.Setenv("LEAPCALC_HISTORY_PATH", ":memory:")
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "default version", version: "0.1.0", wantOut: []string{"LeapCalc v0.1.0", "SQLite"}},
		{name: "dev version", version: "dev", wantOut: []string{"LeapCalc vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewEvalCommand(t *testing.T) {
	cmd := NewEvalCommand()

	assert.Equal(t, "eval [expression...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("record"), "flag %q should exist", "record")
}

func TestNewREPLCommand(t *testing.T) {
	cmd := NewREPLCommand()

	assert.Equal(t, "repl", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

func TestNewTUICommand(t *testing.T) {
	cmd := NewTUICommand()

	assert.Equal(t, "tui", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"list", "clear"}, names)

	list, _, err := cmd.Find([]string{"ls"})
	require.NoError(t, err)
	assert.Equal(t, "list", list.Name(), "ls should be an alias of list")
	assert.NotNil(t, list.Flags().Lookup("format"))
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"port", "watch", "session-secret", "open"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestEvalCommand_Args(t *testing.T) {
	useMemoryHistory(t)

	cmd := NewEvalCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"3", "+", "4", "*", "2"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "11\n", buf.String())
}

func TestEvalCommand_Stdin(t *testing.T) {
	useMemoryHistory(t)

	cmd := NewEvalCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader("3 + 4\n\n50%\n8 / 0\n"))
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "7\n0.5\nInfinity\n", buf.String())
}

func TestEvalCommand_StdinError(t *testing.T) {
	useMemoryHistory(t)

	cmd := NewEvalCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader("1 + 1\n2 x 3\n"))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), `"x"`)
}

func TestGetConfig_Fallback(t *testing.T) {
	config.ResetConfig()
	t.Setenv("LEAPCALC_HISTORY_PATH", "/tmp/calc.db")
	t.Setenv("LEAPCALC_OUTPUT", "json")

	cfg := getConfig()
	assert.Equal(t, "/tmp/calc.db", cfg.HistoryPath)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, config.DefaultRetention, cfg.History.Retention)
}
