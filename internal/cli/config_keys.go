package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/config"
)

const tokenKey = "api.token"

// NewConfigGetCmd creates the config get command. It reads the effective
// configuration: user file, project overlay and environment.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Example: `  stockdesk config get api.base_url
  stockdesk config get table`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return config.Defaults().Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(v)
			return nil
		},
	}
}

// NewConfigSetCmd creates the config set command. Only the target file is
// rewritten, so environment overrides never leak into it.
func NewConfigSetCmd() *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value",
		Example: `  stockdesk config set api.base_url https://inventory.example.com
  stockdesk config set output.page_size 50
  stockdesk --project-dir . config set --project table.preserve_scroll true`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTargetPath(cmd, project)
			if err != nil {
				return err
			}
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("invalid value for %s: %w", args[0], err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Set %s in %s\n", args[0], path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "write the project configuration instead of the user file")
	return cmd
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			for _, key := range cfg.Keys() {
				v, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if key == tokenKey {
					v = maskSecret(v)
				}
				cmd.Printf("%s = %s\n", key, v)
			}
			return nil
		},
	}
}

func configTargetPath(cmd *cobra.Command, project bool) (string, error) {
	if !project {
		return config.GetConfigPath()
	}
	flagDir, _ := cmd.Flags().GetString("project-dir")
	dir := config.ResolveProjectDir(cmd.Context(), flagDir, ".")
	if dir == "" {
		return "", errors.New("no project directory: pass --project-dir or run `stockdesk --project-dir . config init`")
	}
	return filepath.Join(dir, configFileName), nil
}

// maskSecret keeps the last four characters of s.
func maskSecret(s string) string {
	const visible = 4
	if s == "" {
		return ""
	}
	if len(s) <= visible {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-visible) + s[len(s)-visible:]
}
