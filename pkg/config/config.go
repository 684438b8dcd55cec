// Package config loads, defaults, and validates the module configuration,
// and assembles the configured filesystem stack.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (UNIFS_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Backend Configuration Pattern:
// Each backend defines its own configuration shape. The config carries
// type-specific sections as maps (e.g. filesystem.badger) and only the
// section matching the selected type is decoded.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Filesystem selects the base backend and its decorators
	Filesystem FilesystemConfig `mapstructure:"filesystem"`

	// Mounts stacks overlay filesystems on top of the base backend,
	// applied in order
	Mounts []MountConfig `mapstructure:"mounts" validate:"dive"`

	// Throttle rate-limits operations on the assembled stack
	Throttle ThrottleConfig `mapstructure:"throttle"`

	// Metrics controls Prometheus instrumentation
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// BackendConfig selects a filesystem backend and carries its type-specific
// options.
type BackendConfig struct {
	// Type specifies which backend to use
	// Valid values: memory, os, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory os badger"`

	// Memory contains memory-backend options (only used when Type = "memory")
	Memory map[string]any `mapstructure:"memory"`

	// OS contains os-backend options (only used when Type = "os")
	OS map[string]any `mapstructure:"os"`

	// Badger contains badger-backend options (only used when Type = "badger")
	Badger map[string]any `mapstructure:"badger"`
}

// FilesystemConfig is the base backend plus its decorators.
type FilesystemConfig struct {
	BackendConfig `mapstructure:",squash"`

	// ReadOnly rejects every mutation on the assembled stack
	ReadOnly bool `mapstructure:"read_only"`

	// Altroot confines the stack to the given subtree of the backend,
	// creating it if missing. Empty means no confinement.
	Altroot string `mapstructure:"altroot"`
}

// MountConfig stacks an overlay backend at a mount point. Paths under the
// mount point route to the overlay; everything else stays on the base.
type MountConfig struct {
	// MountPoint is the absolute path where the overlay is mounted
	MountPoint string `mapstructure:"mount_point" validate:"required,startswith=/"`

	// Overlay is the backend mounted at MountPoint
	Overlay BackendConfig `mapstructure:"overlay"`
}

// ThrottleConfig rate-limits filesystem operations.
type ThrottleConfig struct {
	// OpsPerSecond is the sustained operation rate. 0 disables throttling.
	OpsPerSecond uint `mapstructure:"ops_per_second"`

	// Burst is the token bucket capacity. Defaults to twice the rate.
	Burst uint `mapstructure:"burst"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	// Enabled turns on the global metrics registry and instruments the
	// assembled stack
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: Path to config file (empty string uses the default
//     location and tolerates a missing file)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variable support and the config file
// search path.
func setupViper(v *viper.Viper, configPath string) {
	// Example: UNIFS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("UNIFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file, tolerating a missing file at
// the default location.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory: $XDG_CONFIG_HOME/unifs,
// falling back to ~/.config/unifs, or the current directory as a last
// resort.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "unifs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "unifs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
