package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: ~/.stockdesk/config.yaml, any project
overlay and STOCKDESK_* environment overrides.

Every invalid field is reported, not just the first.`,
		Example: `  # Validate current configuration
  stockdesk config validate

  # Validate and show detailed information
  stockdesk config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	cmd.Printf("  Backend: %s\n", cfg.API.BaseURL)
	cmd.Printf("  Signed in: %t\n", cfg.API.Token != "")
	cmd.Printf("  Server version: %s (strict: %t)\n", cfg.API.ServerVersion, cfg.API.StrictCompatibility)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Page size: %d\n", cfg.Output.PageSize)
	cmd.Printf("  Search debounce: %s\n", cfg.Table.SearchDebounce())
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
}
