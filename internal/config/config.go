// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.gemcp/config.yaml)
//  3. Default values
//
// GEMINI_API_KEY is read directly by the genai SDK, not via Viper; its
// presence is verified at startup in cmd.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTurns indicates the tool-loop turn cap is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidServerCommand indicates the tool-server command is empty.
	ErrInvalidServerCommand = errors.New("invalid server command")
)

const (
	// DefaultModelName is the Gemini model used when none is configured.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultMaxTurns bounds the tool call/response loop within one query.
	DefaultMaxTurns = 8

	// MaxAllowedTurns is the absolute cap for max_turns.
	MaxAllowedTurns = 64
)

// Config stores application configuration.
type Config struct {
	// Model configuration
	ModelName   string  `mapstructure:"model_name"`
	Temperature float32 `mapstructure:"temperature"`

	// MaxTurns caps the number of model round-trips per query. Each turn may
	// carry several tool calls; the cap stops runaway call loops.
	MaxTurns int `mapstructure:"max_turns"`

	// Tool server process: ServerCommand is the interpreter/binary,
	// ServerArgs are prepended before the server script path given on the
	// command line (e.g. command "python", args []).
	ServerCommand string   `mapstructure:"server_command"`
	ServerArgs    []string `mapstructure:"server_args"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".gemcp")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_turns", DefaultMaxTurns)
	viper.SetDefault("server_command", "python")
	viper.SetDefault("server_args", []string{})
}

// bindEnvVariables binds environment overrides explicitly.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail)
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "GEMCP_MODEL_NAME")
	mustBind("max_turns", "GEMCP_MAX_TURNS")
	mustBind("server_command", "GEMCP_SERVER_COMMAND")

	// NOTE: GEMINI_API_KEY is read directly by the genai SDK, not via Viper.
	// Its presence is checked at startup in cmd.
}

// Validate checks all configuration values, failing fast on the first error.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return ErrInvalidModelName
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %v (must be in [0, 2])", ErrInvalidTemperature, c.Temperature)
	}
	if c.MaxTurns < 1 || c.MaxTurns > MaxAllowedTurns {
		return fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidMaxTurns, c.MaxTurns, MaxAllowedTurns)
	}
	if c.ServerCommand == "" {
		return ErrInvalidServerCommand
	}
	return nil
}
