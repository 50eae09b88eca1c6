package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all jellytidy configuration
type Config struct {
	Run    RunConfig    `toml:"run"`
	Log    LogConfig    `toml:"log"`
	Safety SafetyConfig `toml:"safety"`
}

// RunConfig controls how a run behaves
type RunConfig struct {
	DryRun  bool `toml:"dry_run"` // print the plan and exit
	Confirm bool `toml:"confirm"` // review the plan before applying
}

// LogConfig controls the run logger
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
	File   string `toml:"file"`   // empty = stderr
}

// SafetyConfig holds extra paths a library root may never point into
type SafetyConfig struct {
	ProtectedPaths []string `toml:"protected_paths"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			DryRun:  false,
			Confirm: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(configDir, "jellytidy", "config.toml"), nil
}

// Load reads the config file from its default location
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configFile)
}

// LoadFrom reads the config at path on top of the defaults.
// A missing file is not an error; the defaults are returned as-is.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	for _, p := range c.Safety.ProtectedPaths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("protected path must be absolute: %s", p)
		}
	}

	return nil
}
