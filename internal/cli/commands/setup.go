package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/cli/config"
	"github.com/leapstack-labs/leapcalc/internal/history"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  history.Store
	Calc   *calculator.Calculator
}

// NewCommandContext opens the history store and builds a calculator on top of it.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	store, err := openHistory(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history store", "error", err)
		}
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Store:  store,
		Calc:   calculator.New(calculator.Config{Store: store, Logger: logger}),
	}, cleanup, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults
// with the history path taken from the environment.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg := config.Default()
	cfg.HistoryPath = getEnvOrDefault("LEAPCALC_HISTORY_PATH", config.DefaultHistoryFile)
	cfg.Verbose = os.Getenv("LEAPCALC_VERBOSE") == "true"
	cfg.OutputFormat = getEnvOrDefault("LEAPCALC_OUTPUT", config.DefaultOutput)
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func openHistory(cfg *config.Config, logger *slog.Logger) (history.Store, error) {
	store, err := history.Open(cfg.HistoryPath, history.Options{
		Retention: cfg.History.Retention,
		Limit:     cfg.History.Limit,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", cfg.HistoryPath, err)
	}
	logger.Debug("history opened", "path", cfg.HistoryPath)
	return store, nil
}
