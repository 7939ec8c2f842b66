package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
)

// NewLoginCmd creates the login command that stores a bearer token in the user config.
func NewLoginCmd() *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Signs in to the backend and stores the returned token in ~/.stockdesk/config.yaml.

Missing credentials are prompted for when a terminal is attached. In scripts,
pass --username and pipe the password with --password-stdin.`,
		Example: `  # Interactive
  stockdesk login

  # Non-interactive
  echo "$PASSWORD" | stockdesk login --username admin --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				p, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			return runLogin(cmd, username, password)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cmd *cobra.Command, username, password string) error {
	ctx := cmd.Context()
	start := time.Now()

	if username == "" || password == "" {
		if err := credentialsFunc(&username, &password); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return ErrAborted
			}
			if errors.Is(err, ErrPromptUnavailable) {
				return fmt.Errorf("%w: pass --username and --password-stdin", err)
			}
			return err
		}
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	client.SetToken("")

	session, err := inventory.NewAuthService(client).Login(ctx, inventory.Credentials{
		Username: strings.TrimSpace(username),
		Password: password,
	})
	audit(ctx, "login", map[string]string{"username": username}, start, err)
	if err != nil {
		return err
	}

	// Rewrite the user file only, so env and project overrides are never persisted.
	cfg, err := config.LoadUserFile()
	if err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	cfg.API.Token = session.Token
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL = client.BaseURL()
	}
	if err = cfg.Save(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	config.GetGlobalConfig().API.Token = session.Token

	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "login").
		Str("username", session.Username).
		Msg("signed in")

	name := session.Username
	if name == "" {
		name = username
	}
	cmd.Printf("Signed in as %s\n", name)
	cmd.Printf("Token saved to %s\n", cfg.Path())
	return nil
}

// NewLogoutCmd creates the logout command that forgets the stored token.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadUserFile()
			if err != nil {
				return fmt.Errorf("loading user config: %w", err)
			}
			if cfg.API.Token == "" {
				cmd.Println("Not signed in.")
				return nil
			}
			cfg.API.Token = ""
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			audit(cmd.Context(), "logout", nil, time.Now(), nil)
			cmd.Println("Signed out.")
			return nil
		},
	}
}

// NewWhoamiCmd creates the whoami command that shows the signed-in profile.
func NewWhoamiCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			if !client.HasToken() {
				return ErrLoginRequired
			}
			profile, err := inventory.NewAuthService(client).Profile(cmd.Context())
			if err != nil {
				return wrapAPIError(err)
			}
			return renderProfile(cmd.OutOrStdout(), format, profile, client.BaseURL())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	return cmd
}

func renderProfile(w io.Writer, format string, p inventory.Profile, baseURL string) error {
	if format != OutputTable {
		enc := json.NewEncoder(w)
		if format == OutputJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(p)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", p.DisplayName())
	fmt.Fprintf(tw, "Username:\t%s\n", p.Username)
	if p.Email != "" {
		fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	}
	if len(p.Roles) > 0 {
		fmt.Fprintf(tw, "Roles:\t%s\n", strings.Join(p.Roles, ", "))
	}
	fmt.Fprintf(tw, "Server:\t%s\n", baseURL)
	return tw.Flush()
}
