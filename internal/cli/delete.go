package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/logging"
)

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted")

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record",
		Long: `Deletes a record after confirmation.

Without a terminal the command refuses to run unless --yes is given.`,
		Example: `  # Delete supplier 4, asking first
  stockdesk delete suppliers 4

  # Delete without asking
  stockdesk delete units 9 --yes`,
		Args: cobra.ExactArgs(2), //nolint:mnd // resource and id
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], args[1], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runDelete(cmd *cobra.Command, name, rawID string, yes bool) error {
	ctx := cmd.Context()
	start := time.Now()

	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	svc, err := newServices(cmd)
	if err != nil {
		return err
	}
	browser, err := svc.Browser(name)
	if err != nil {
		return err
	}
	resource := browser.Resource()

	if !yes {
		res := Confirm(
			fmt.Sprintf("Delete %s %d?", resource.Title, id),
			"This cannot be undone.",
		)
		if !res.Accepted {
			return fmt.Errorf("%w: %s %d was not deleted (use --yes to skip confirmation)", ErrAborted, resource.Name, id)
		}
	}

	err = browser.Delete(ctx, id)
	audit(ctx, "delete", map[string]string{
		"resource": resource.Name,
		"id":       strconv.FormatInt(id, 10),
	}, start, err)
	if err != nil {
		return wrapAPIError(fmt.Errorf("deleting %s %d: %w", resource.Name, id, err))
	}

	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "delete").
		Str("resource", resource.Name).
		Int64("id", id).
		Msg("record deleted")
	cmd.Printf("Deleted %s %d\n", resource.Name, id)
	return nil
}
