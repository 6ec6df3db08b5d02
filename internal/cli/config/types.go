// Package config provides configuration management for the LeapCalc CLI.
package config

import "time"

// HistoryConfig holds history retention settings.
type HistoryConfig struct {
	Retention time.Duration `koanf:"retention"`
	Limit     int           `koanf:"limit"`
}

// UIConfig holds configuration for the web calculator.
type UIConfig struct {
	Port          int    `koanf:"port"`
	SessionSecret string `koanf:"session_secret"`
	Watch         bool   `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	HistoryPath  string        `koanf:"history_path"`
	History      HistoryConfig `koanf:"history"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	UI           UIConfig      `koanf:"ui"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultHistoryFile = ".leapcalc/history.db"
	DefaultRetention   = 24 * time.Hour
	DefaultOutput      = "table"
	DefaultUIPort      = 8765
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"table", "json", "csv", "md", "yaml"}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		HistoryPath:  DefaultHistoryFile,
		History:      HistoryConfig{Retention: DefaultRetention},
		OutputFormat: DefaultOutput,
		UI:           UIConfig{Port: DefaultUIPort, Watch: true},
	}
}
