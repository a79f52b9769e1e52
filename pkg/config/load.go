package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, applies SEGUARD_* environment variable
// overrides, validates the result, and returns any errors.
//
// The loading sequence is:
//  1. Seed true-by-default booleans
//  2. Unmarshal YAML from file
//  3. Apply default values
//  4. Apply environment variable overrides
//  5. Validate final configuration
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	seedEnabledDefaults(&cfg)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format SEGUARD_SECTION_FIELD and always
// take precedence over file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SEGUARD_ENFORCEMENT_PERMISSIVE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Enforcement.Permissive = b
		}
	}
	if val := os.Getenv("SEGUARD_ENFORCEMENT_DEBUG_AUDIT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Enforcement.DebugAudit = b
		}
	}

	if val := os.Getenv("SEGUARD_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("SEGUARD_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("SEGUARD_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}
	if val := os.Getenv("SEGUARD_AUDIT_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Audit.WriteTimeout = d
		}
	}
	if val := os.Getenv("SEGUARD_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.RetentionDays = i
		}
	}
	if val := os.Getenv("SEGUARD_AUDIT_PRUNE_SCHEDULE"); val != "" {
		cfg.Audit.PruneSchedule = val
	}

	if val := os.Getenv("SEGUARD_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}

	if val := os.Getenv("SEGUARD_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("SEGUARD_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
