package config

import "strings"

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
// Backend-specific defaults live with the backend sections so generated
// config files show them.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyBackendDefaults(&cfg.Filesystem.BackendConfig)

	for i := range cfg.Mounts {
		applyBackendDefaults(&cfg.Mounts[i].Overlay)
	}

	applyThrottleDefaults(&cfg.Throttle)
}

// applyLoggingDefaults sets logging defaults and normalizes the level.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
}

// applyBackendDefaults sets backend defaults.
func applyBackendDefaults(cfg *BackendConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}

	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}
	if cfg.OS == nil {
		cfg.OS = make(map[string]any)
	}
	if cfg.Badger == nil {
		cfg.Badger = make(map[string]any)
	}

	if _, ok := cfg.Badger["path"]; !ok {
		cfg.Badger["path"] = "/tmp/unifs-data"
	}
}

// applyThrottleDefaults derives the burst capacity when only a rate is
// given.
func applyThrottleDefaults(cfg *ThrottleConfig) {
	if cfg.OpsPerSecond > 0 && cfg.Burst == 0 {
		cfg.Burst = cfg.OpsPerSecond * 2
	}
}
