// Package config provides configuration loading, validation, and reload
// watching for seguard.
//
// Configuration is loaded from a YAML file, defaults are applied, optional
// SEGUARD_* environment variable overrides are layered on top, and the
// result is validated. Most settings are read-only after init; the two
// enforcement flags (permissive, debug_audit) are reloadable at runtime via
// the file Watcher.
//
// Example configuration:
//
//	enforcement:
//	  permissive: false
//	  debug_audit: false
//	audit:
//	  enabled: true
//	  backend: sqlite
//	  path: data/audit.db
//	  retention_days: 90
//	  prune_schedule: "0 3 * * *"
//	metrics:
//	  enabled: true
//	logging:
//	  level: info
//	  format: json
package config
