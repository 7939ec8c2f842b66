package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/api"
	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
)

// ErrLoginRequired wraps backend authentication failures surfaced to the user.
var ErrLoginRequired = errors.New("not signed in or session expired; run `stockdesk login`")

// newClient builds an API client from the global configuration.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	cfg := config.GetGlobalConfig()
	client, err := api.New(api.Options{
		BaseURL:       cfg.API.BaseURL,
		Token:         cfg.API.Token,
		UserAgent:     "stockdesk/" + cmd.Root().Version,
		Timeout:       cfg.API.Timeout(),
		MaxRetries:    cfg.API.MaxRetries,
		RetryBase:     cfg.API.RetryBase(),
		RetryMax:      cfg.API.RetryMax(),
		ServerVersion: cfg.API.ServerVersion,
		Strict:        cfg.API.StrictCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring API client: %w", err)
	}
	return client, nil
}

// newServices binds every inventory service to a client built from configuration.
func newServices(cmd *cobra.Command) (*inventory.Services, error) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, err
	}
	return inventory.NewServices(client), nil
}

// wrapAPIError adds the login hint to authentication failures.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	if api.IsAuthError(err) {
		return fmt.Errorf("%w: %w", ErrLoginRequired, err)
	}
	return err
}

// parseID parses a positive record ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

// audit writes an audit entry for a mutating command.
func audit(ctx context.Context, command string, params map[string]string, start time.Time, err error) {
	entry := logging.NewAuditEntry(command, logging.TraceIDFromContext(ctx)).
		WithParameters(params).
		WithDuration(start)
	if err != nil {
		entry = entry.WithError(err.Error())
	} else {
		entry = entry.WithSuccess(1)
	}
	logging.AuditLoggerFromContext(ctx).Log(ctx, *entry)
}
