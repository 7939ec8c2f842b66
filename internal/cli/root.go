package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the stockdesk CLI.
// It resolves configuration, wires up logging, tracing and audit logging, and
// registers every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
		apiURL     string
	)

	cmd := &cobra.Command{
		Use:           "stockdesk",
		Short:         "Terminal client for the stockdesk inventory backend",
		Long:          "stockdesk: browse, search and manage warehouse inventory from the terminal",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			wd, _ := os.Getwd()
			dir := config.ResolveProjectDir(cmd.Context(), projectDir, wd)
			config.InitGlobalConfigWithProject(cmd.Context(), dir)

			cfg := config.GetGlobalConfig()
			if cmd.Flags().Changed("api-url") {
				cfg.API.BaseURL = apiURL
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config and STOCKDESK_API_URL)")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project configuration directory (defaults to the nearest .stockdesk/ above the working directory)")

	cmd.AddCommand(
		NewListCmd(), NewBrowseCmd(), NewGetCmd(), NewCreateCmd(), NewUpdateCmd(), NewDeleteCmd(),
		NewReceiptCmd(), NewStockCmd(), NewOverviewCmd(), newReportCmd(),
		NewLoginCmd(), NewLogoutCmd(), NewWhoamiCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Sign in and store the token
  stockdesk login

  # List the second page of products, newest first
  stockdesk list products --page 2 --sort createdAt:desc

  # Search pending imports as JSON
  stockdesk list imports --status PENDING --output json

  # Browse customers interactively
  stockdesk browse customers

  # Create a unit from JSON on stdin
  echo '{"name":"Box","description":"Carton of 24"}' | stockdesk create units -f -

  # Approve an import receipt
  stockdesk receipt imports approve 42

  # Show record counts for every resource
  stockdesk overview

  # Generate a weekly sales report
  stockdesk report generate --type sales --period weekly

  # Point at another backend for one command
  stockdesk --api-url https://inventory.example.com list stores`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// newReportCmd creates the report command group for the AI insight panels.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "AI insight reports",
		Long: `Fetches AI-generated insight panels from the backend and renders them as Markdown.

In a terminal the report opens in a scrollable viewer; otherwise it is printed.`,
	}
	cmd.AddCommand(
		NewReportAlertsCmd(), NewReportInventoryAlertsCmd(), NewReportGenerateCmd(),
		NewReportChatCmd(), NewReportForecastCmd(), NewReportDemandCmd(), NewReportABCCmd(),
		NewReportSalesTrendCmd(), NewReportSalesInsightsCmd(), NewReportTurnoverCmd(),
		NewReportStockOptimizationCmd(), NewReportCombosCmd(),
	)
	return cmd
}
