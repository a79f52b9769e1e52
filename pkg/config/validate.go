package config

import "fmt"

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values. It returns the
// first validation error encountered.
func Validate(cfg *Config) error {
	switch cfg.Audit.Backend {
	case "sqlite", "memory":
	default:
		return &ValidationError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("unknown backend %q (expected \"sqlite\" or \"memory\")", cfg.Audit.Backend),
		}
	}

	if cfg.Audit.Backend == "sqlite" && cfg.Audit.Path == "" {
		return &ValidationError{Field: "audit.path", Message: "required for sqlite backend"}
	}
	if cfg.Audit.AsyncBuffer < 1 {
		return &ValidationError{Field: "audit.async_buffer", Message: "must be at least 1"}
	}
	if cfg.Audit.WriteTimeout <= 0 {
		return &ValidationError{Field: "audit.write_timeout", Message: "must be positive"}
	}
	if cfg.Audit.RetentionDays < 0 {
		return &ValidationError{Field: "audit.retention_days", Message: "must not be negative"}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		}
	}

	switch cfg.Logging.Format {
	case "json", "text", "console":
	default:
		return &ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		}
	}

	return nil
}
