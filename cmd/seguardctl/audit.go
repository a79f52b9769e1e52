package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"seguard-hq/seguard/pkg/audit"
	"seguard-hq/seguard/pkg/config"
)

var auditFlags struct {
	backend   string
	timeRange string
	decision  string
	class     string
	limit     int
	format    string
	output    string
	before    string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Work with the decision audit trail",
	Long: `Query and maintain the decision audit database.

Subcommands:
  query  - Query audit records with filters
  prune  - Delete records past the retention horizon

Examples:
  # Query the last day
  seguardctl audit query --time-range "2026-08-27T00:00:00Z/2026-08-28T00:00:00Z"

  # Show only denials
  seguardctl audit query --decision deny

  # Export to JSON
  seguardctl audit query --format json --output audit.json`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit records",
	Long: `Query audit records with various filters.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-27T00:00:00Z/2026-08-28T00:00:00Z"

Examples:
  # Query a specific time range
  seguardctl audit query --time-range "2026-08-27T00:00:00Z/2026-08-28T00:00:00Z"

  # Denied table accesses only
  seguardctl audit query --decision deny --class db_table`,
	RunE: queryAudit,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old audit records",
	Long: `Delete audit records past the retention horizon.

The horizon comes from audit.retention_days in the configuration file, or
from --before for an explicit cutoff.`,
	RunE: pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditPruneCmd)

	// Flags for query command
	auditQueryCmd.Flags().StringVar(&auditFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")
	auditQueryCmd.Flags().StringVar(&auditFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	auditQueryCmd.Flags().StringVar(&auditFlags.decision, "decision", "", "filter by decision (allow, deny)")
	auditQueryCmd.Flags().StringVar(&auditFlags.class, "class", "", "filter by security class (e.g. db_table)")
	auditQueryCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "max results")
	auditQueryCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
	auditQueryCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")

	// Flags for prune command
	auditPruneCmd.Flags().StringVar(&auditFlags.backend, "backend", "", "backend: sqlite, memory")
	auditPruneCmd.Flags().StringVar(&auditFlags.before, "before", "", "explicit cutoff (RFC3339, overrides retention_days)")
}

// openAuditStorage loads the configuration and opens the audit backend the
// flags or the config select.
func openAuditStorage() (audit.Storage, *config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	backendType := auditFlags.backend
	if backendType == "" {
		backendType = cfg.Audit.Backend
	}

	switch backendType {
	case "sqlite":
		sqliteConfig := audit.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.Audit.Path
		store, err := audit.NewSQLiteStorage(sqliteConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite storage: %w", err)
		}
		return store, cfg, nil
	case "memory":
		return audit.NewMemoryStorage(), cfg, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend: %s (supported: sqlite, memory)", backendType)
	}
}

func queryAudit(cmd *cobra.Command, args []string) error {
	store, _, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	query := &audit.Query{
		Decision: audit.Decision(auditFlags.decision),
		Class:    auditFlags.class,
		Limit:    auditFlags.limit,
	}

	if auditFlags.timeRange != "" {
		parts := strings.Split(auditFlags.timeRange, "/")
		if len(parts) != 2 {
			return fmt.Errorf("invalid time range format (expected: start/end)")
		}
		since, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		query.Since = &since
		until, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		query.Until = &until
	}

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	output := os.Stdout
	if auditFlags.output != "" {
		output, err = os.Create(auditFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	switch auditFlags.format {
	case "json":
		return outputAuditJSON(output, records)
	default:
		return outputAuditText(output, records, query)
	}
}

func outputAuditText(output *os.File, records []*audit.Record, query *audit.Query) error {
	if query.Since != nil && query.Until != nil {
		fmt.Fprintf(output, "Time range: %s to %s\n",
			query.Since.Format(time.RFC3339),
			query.Until.Format(time.RFC3339))
	}
	fmt.Fprintf(output, "Total records: %d\n", len(records))
	fmt.Fprintln(output)

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(output)
		}
		fmt.Fprintf(output, "Record ID: %s\n", record.ID)
		fmt.Fprintf(output, "Timestamp: %s\n", record.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(output, "Hook: %s\n", record.Hook)
		fmt.Fprintf(output, "Subject: %s\n", record.Subject)
		fmt.Fprintf(output, "Target: %s\n", record.Target)
		fmt.Fprintf(output, "Class: %s\n", record.Class)
		fmt.Fprintf(output, "Permissions: %s\n", record.Permissions)
		fmt.Fprintf(output, "Decision: %s\n", record.Decision)
	}
	return nil
}

func outputAuditJSON(output *os.File, records []*audit.Record) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	result := map[string]interface{}{
		"total_records": len(records),
		"records":       records,
	}
	return encoder.Encode(result)
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	store, cfg, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	var cutoff time.Time
	if auditFlags.before != "" {
		cutoff, err = time.Parse(time.RFC3339, auditFlags.before)
		if err != nil {
			return fmt.Errorf("invalid cutoff time: %w", err)
		}
	} else {
		if cfg.Audit.RetentionDays == 0 {
			return fmt.Errorf("retention is disabled (audit.retention_days = 0); use --before for an explicit cutoff")
		}
		cutoff = time.Now().AddDate(0, 0, -cfg.Audit.RetentionDays)
	}

	removed, err := store.Prune(context.Background(), cutoff)
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}

	fmt.Printf("Removed %d records older than %s.\n", removed, cutoff.Format(time.RFC3339))
	return nil
}
