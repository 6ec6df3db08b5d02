// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapcalc/internal/cli/config"
	"github.com/spf13/cobra"
)

// SetupTestProject creates a temporary project whose leapcalc.yaml keeps
// history in a database inside the project. Extra YAML lines are appended
// to the config. Returns the path of the config file.
func SetupTestProject(t *testing.T, extra ...string) string {
	t.Helper()

	dir := t.TempDir()
	content := "history_path: history.db\n" + strings.Join(extra, "\n")
	cfgPath := filepath.Join(dir, "leapcalc.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to create leapcalc.yaml: %v", err)
	}
	return cfgPath
}

// ExecuteCommand runs cmd with args, returning combined stdout and stderr.
// Loaded configuration is reset first so every run starts clean.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
