package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"seguard-hq/seguard/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a seguard configuration file.

The file is parsed, defaults are applied, environment overrides
(SEGUARD_*) are resolved, and the result is checked against the same
rules the library applies at startup.

Examples:
  # Validate the default config file
  seguardctl validate

  # Validate a specific file
  seguardctl validate --config /etc/seguard/seguard.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid configuration: %w", verr)
		}
		return fmt.Errorf("failed to load %s: %w", cfgFile, err)
	}

	fmt.Printf("Configuration %s is valid.\n", cfgFile)
	if verbose {
		fmt.Println()
		fmt.Printf("Enforcement: permissive=%v debug_audit=%v\n",
			cfg.Enforcement.Permissive, cfg.Enforcement.DebugAudit)
		fmt.Printf("Audit: enabled=%v backend=%s path=%s retention=%dd\n",
			cfg.Audit.Enabled, cfg.Audit.Backend, cfg.Audit.Path, cfg.Audit.RetentionDays)
		fmt.Printf("Metrics: enabled=%v namespace=%s subsystem=%s\n",
			cfg.Metrics.Enabled, cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
		fmt.Printf("Logging: level=%s format=%s\n", cfg.Logging.Level, cfg.Logging.Format)
	}
	return nil
}
