package config

import "time"

// Config is the root configuration structure for seguard. It contains the
// enforcement flags consulted by the hook mediator plus the ambient
// audit-trail, metrics, and logging sections.
type Config struct {
	// Enforcement contains the runtime enforcement flags. These are the
	// only settings that may change after init (via the config Watcher).
	Enforcement EnforcementConfig `yaml:"enforcement"`

	// Audit contains configuration for the decision audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// EnforcementConfig contains the runtime enforcement flags.
type EnforcementConfig struct {
	// Permissive selects permissive mode at authentication time: policy
	// is evaluated and denials are logged, but nothing is blocked.
	// Default: false (enforcing)
	Permissive bool `yaml:"permissive"`

	// DebugAudit emits an audit record for every decision, allow or deny,
	// independent of the policy's own audit rules. Debugging aid.
	// Default: false
	DebugAudit bool `yaml:"debug_audit"`
}

// AuditConfig contains configuration for the decision audit trail.
type AuditConfig struct {
	// Enabled enables audit recording. When false, no recorder is
	// started and DebugAudit has no effect.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path (sqlite backend only).
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the size of the async record channel. Records are
	// dropped (and the drop logged) when the buffer is full.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RetentionDays is how long audit records are kept before pruning.
	// Zero disables pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for scheduled pruning.
	// Empty disables the scheduler.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled enables metric registration.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	// Default: "seguard"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem prefix.
	// Default: "mac"
	Subsystem string `yaml:"subsystem"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json", "text", or "console".
	// Default: "json"
	Format string `yaml:"format"`
}
