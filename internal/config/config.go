// Package config provides Viper-based configuration management for redeemctl
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete redeemctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig contains the GiftRedeem backend settings
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the fixed per-call ceiling; there is no per-caller
	// cancellation beyond it
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit caps outbound requests per second; zero disables it
	RateLimit float64 `mapstructure:"rate_limit"`
}

// AuthConfig contains session persistence and login flow settings
type AuthConfig struct {
	StateFile      string `mapstructure:"state_file"`
	CallbackListen string `mapstructure:"callback_listen"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors   bool `mapstructure:"colors"`
	Progress bool `mapstructure:"progress"`
}

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set config file if specified
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .redeemctl.yaml
		v.SetConfigName(".redeemctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/redeemctl")
	}

	// Environment variables
	v.SetEnvPrefix("REDEEMCTL")
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 20*time.Second)
	v.SetDefault("api.rate_limit", 0.0)

	// Auth defaults
	v.SetDefault("auth.state_file", defaultStateFile())
	v.SetDefault("auth.callback_listen", "127.0.0.1:0")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Output defaults
	v.SetDefault("output.colors", true)
	v.SetDefault("output.progress", true)
}

// defaultStateFile returns the standard session state location
func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".redeemctl-state.json")
	}
	return filepath.Join(home, ".config", "redeemctl", "state.json")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", cfg.API.Timeout)
	}

	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative, got %v", cfg.API.RateLimit)
	}

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
