package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "seguardctl",
	Short: "Seguard - mandatory access control mediation for query engines",
	Long: `Seguard mediates the extension points of an embedding query engine
against an external policy decision engine.

This tool manages the parts of a seguard deployment that live outside the
host process:
  - Configuration validation
  - Audit trail queries and reports
  - Audit retention maintenance`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "seguard.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
