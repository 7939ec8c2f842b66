package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/config"
)

const configFileName = "config.yaml"

// NewConfigInitCmd creates the config init command for initializing configuration.
// With --project-dir (or STOCKDESK_PROJECT_DIR) it creates a project-local
// .stockdesk/config.yaml; otherwise it creates ~/.stockdesk/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

When a project directory is given with --project-dir or STOCKDESK_PROJECT_DIR, the
file is created at $PROJECT/.stockdesk/config.yaml and overrides the user
configuration for commands run inside that project. Use --global to force the
user configuration even then.`,
		Example: `  # Create the user configuration
  stockdesk config init

  # Create project-local configuration
  stockdesk --project-dir . config init

  # Create configuration, overwriting existing
  stockdesk config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flagDir, _ := cmd.Flags().GetString("project-dir")
			projectDir := config.ResolveProjectDir(cmd.Context(), flagDir, "")

			if projectDir != "" && !global {
				return initConfigAt(cmd, filepath.Join(projectDir, configFileName), force)
			}

			path, err := config.GetConfigPath()
			if err != nil {
				return fmt.Errorf("resolving config path: %w", err)
			}
			return initConfigAt(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "initialize the user configuration even when a project directory is set")

	return cmd
}

// initConfigAt writes the defaults to path.
func initConfigAt(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg := config.Defaults()
	cfg.SetPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}
