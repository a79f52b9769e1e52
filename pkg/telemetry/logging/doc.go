// Package logging configures the structured root logger for seguard.
//
// All components log through log/slog with a "component" attribute. This
// package turns the logging configuration section into a *slog.Logger with
// the requested level and output format (json, text, or console).
package logging
