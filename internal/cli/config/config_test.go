package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a leapcalc.yaml into dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leapcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// TestConfig_Validate tests the Config.Validate method.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errSubstr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "in-memory history",
			mutate: func(c *Config) { c.HistoryPath = ":memory:" },
		},
		{
			name:      "empty history path",
			mutate:    func(c *Config) { c.HistoryPath = "" },
			wantErr:   true,
			errSubstr: "history_path is required",
		},
		{
			name:      "negative limit",
			mutate:    func(c *Config) { c.History.Limit = -1 },
			wantErr:   true,
			errSubstr: "history.limit",
		},
		{
			name:      "unknown output",
			mutate:    func(c *Config) { c.OutputFormat = "xml" },
			wantErr:   true,
			errSubstr: "unknown output format",
		},
		{
			name:      "port out of range",
			mutate:    func(c *Config) { c.UI.Port = 70000 },
			wantErr:   true,
			errSubstr: "ui.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, DefaultHistoryFile), cfg.HistoryPath)
	assert.Equal(t, DefaultRetention, cfg.History.Retention)
	assert.Equal(t, 0, cfg.History.Limit)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultUIPort, cfg.UI.Port)
	assert.True(t, cfg.UI.Watch)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, `history_path: calc/history.db
history:
  retention: 2h30m
  limit: 50
output: json
ui:
  port: 9000
  watch: false
  session_secret: s3cret
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "calc", "history.db"), cfg.HistoryPath)
	assert.Equal(t, 150*time.Minute, cfg.History.Retention)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.Watch)
	assert.Equal(t, "s3cret", cfg.UI.SessionSecret)
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "history_path: \":memory:\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.HistoryPath)
	assert.Equal(t, "leapcalc.yaml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, t.TempDir(), "output: xml\n")
	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, t.TempDir(), "output: json\nhistory:\n  limit: 5\n")
	t.Setenv("LEAPCALC_OUTPUT", "csv")
	t.Setenv("LEAPCALC_HISTORY__LIMIT", "7")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.OutputFormat, "env var should override config file")
	assert.Equal(t, 7, cfg.History.Limit)
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, t.TempDir(), "output: json\n")
	t.Setenv("LEAPCALC_OUTPUT", "csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")
	flags.String("history", "", "history database")
	flags.Duration("history-retention", 0, "retention")
	require.NoError(t, flags.Set("output", "yaml"))
	require.NoError(t, flags.Set("history", "here.db"))
	require.NoError(t, flags.Set("history-retention", "1h"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat, "flag value should override config file and env var")
	assert.Equal(t, filepath.Join(cwd, "here.db"), cfg.HistoryPath, "flag paths resolve against the working directory")
	assert.Equal(t, time.Hour, cfg.History.Retention)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, t.TempDir(), "output: json\n")
	t.Setenv("LEAPCALC_OUTPUT", "md")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "table", "output format")

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestGetLogger(t *testing.T) {
	t.Run("fallback discards", func(t *testing.T) {
		assert.NotNil(t, GetLogger(context.Background()))
	})

	t.Run("stored logger", func(t *testing.T) {
		logger := NewLogger(os.Stderr, true)
		ctx := context.WithValue(context.Background(), LoggerKey(), logger)
		assert.Same(t, logger, GetLogger(ctx))
	})
}
