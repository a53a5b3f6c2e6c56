// Package config loads runtime configuration from a YAML file and the
// environment. Environment variables override file values.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds process-level settings shared by the examples and host
// applications embedding the library.
type Config struct {
	// Provider selects the model backend: "openai" or "gollm".
	Provider string `env:"FLOWKIT_PROVIDER" yaml:"provider"`
	// OpenAIKey authenticates the OpenAI backend.
	OpenAIKey string `env:"OPENAI_KEY" yaml:"openai_key"`
	// Model is the model identifier passed on every call.
	Model string `env:"MODEL" yaml:"model"`
	// MaxIterations bounds agent loop cycles.
	MaxIterations int `env:"FLOWKIT_MAX_ITERATIONS" yaml:"max_iterations"`
	// EvalWorkers bounds concurrent evaluation pipeline executions.
	EvalWorkers int `env:"FLOWKIT_EVAL_WORKERS" yaml:"eval_workers"`
	// RedisAddr enables the Redis knowledge store when non-empty.
	RedisAddr string `env:"REDIS_ADDR" yaml:"redis_addr"`
	// LogLevel sets the default logger level.
	LogLevel string `env:"FLOWKIT_LOG_LEVEL" yaml:"log_level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		MaxIterations: 10,
		EvalWorkers:   8,
		LogLevel:      "info",
	}
}

// FromEnv loads configuration from the environment over the defaults.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML config file and overlays the environment on top. An
// empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
