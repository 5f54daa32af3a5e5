// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ModelConfig selects and tunes the language model provider.
type ModelConfig struct {
	// Provider is one of "openai", "anthropic" or "mock".
	Provider string `yaml:"provider"`
	// Name is the provider-specific model identifier. Empty uses the
	// provider default.
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
	// InvokeTimeout bounds a single model invocation.
	InvokeTimeout time.Duration `yaml:"invoke_timeout"`
	// RequestsPerSecond throttles provider calls; zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// LogConfig tunes structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Config holds the full server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// DatabasePath is the SQLite user database file.
	DatabasePath string      `yaml:"database_path"`
	Model        ModelConfig `yaml:"model"`
	Log          LogConfig   `yaml:"log"`
}

// Default returns the baseline configuration used when no file is supplied.
func Default() Config {
	return Config{
		Addr:         ":8080",
		DatabasePath: "finassist.db",
		Model: ModelConfig{
			Provider:      "openai",
			Temperature:   0.7,
			MaxTokens:     4096,
			InvokeTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from path (skipped when empty) on top of the
// defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values from the environment. Provider API keys
// (OPENAI_API_KEY, ANTHROPIC_API_KEY) are read by the SDK clients directly.
func (c *Config) applyEnv() {
	if v := os.Getenv("FINASSIST_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("FINASSIST_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("FINASSIST_MODEL_PROVIDER"); v != "" {
		c.Model.Provider = v
	}
	if v := os.Getenv("FINASSIST_MODEL_NAME"); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv("FINASSIST_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FINASSIST_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}
