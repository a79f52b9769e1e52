package config

import "time"

// DefaultConfig returns a configuration populated with all default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any zero-valued fields.
// Boolean fields with a true default are only defaulted by DefaultConfig,
// since a loaded false is indistinguishable from an unset field; the YAML
// loader therefore pre-seeds them before unmarshalling.
func ApplyDefaults(cfg *Config) {
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "sqlite"
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = "data/audit.db"
	}
	if cfg.Audit.AsyncBuffer == 0 {
		cfg.Audit.AsyncBuffer = 1000
	}
	if cfg.Audit.WriteTimeout == 0 {
		cfg.Audit.WriteTimeout = 5 * time.Second
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = 90
	}
	if cfg.Audit.PruneSchedule == "" {
		cfg.Audit.PruneSchedule = "0 3 * * *"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "seguard"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "mac"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// seedEnabledDefaults sets the true-by-default booleans before a YAML
// unmarshal so that omitting the field keeps the default while an explicit
// `enabled: false` still turns the feature off.
func seedEnabledDefaults(cfg *Config) {
	cfg.Audit.Enabled = true
	cfg.Metrics.Enabled = true
}
