package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// NewReceiptCmd creates the receipt command that moves a receipt or check
// through its workflow.
func NewReceiptCmd() *cobra.Command {
	var (
		reason string
		output string
	)

	cmd := &cobra.Command{
		Use:   "receipt <imports|exports|checks> <confirm|approve|cancel|reject> <id>",
		Short: "Change the status of a receipt or inventory check",
		Long: `Applies a workflow transition to an import receipt, export receipt or inventory check.

Imports and exports accept confirm, approve, cancel and reject.
Inventory checks accept approve, confirm and reject.
A rejection may carry a reason.`,
		Example: `  # Approve import 42
  stockdesk receipt imports approve 42

  # Reject an export with a reason
  stockdesk receipt exports reject 17 --reason "wrong quantities"`,
		Args: cobra.ExactArgs(3), //nolint:mnd // resource, action and id
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReceipt(cmd, args, reason, output)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "rejection reason")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	return cmd
}

func runReceipt(cmd *cobra.Command, args []string, reason, output string) error {
	ctx := cmd.Context()
	start := time.Now()

	format, err := resolveOutputFormat(output)
	if err != nil {
		return err
	}
	action, err := inventory.ParseAction(args[1])
	if err != nil {
		return err
	}
	id, err := parseID(args[2])
	if err != nil {
		return err
	}
	if reason != "" && action != inventory.ActionReject {
		return errors.New("--reason is only valid with reject")
	}

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}
	t, err := svc.Transitioner(args[0])
	if err != nil {
		return err
	}
	resource := t.Resource()

	record, err := t.TransitionRecord(ctx, id, action, strings.TrimSpace(reason))
	audit(ctx, "receipt "+string(action), map[string]string{
		"resource": resource.Name,
		"id":       strconv.FormatInt(id, 10),
		"reason":   reason,
	}, start, err)
	if err != nil {
		return wrapAPIError(err)
	}

	if format == OutputTable {
		cmd.Printf("%s %d: %s\n", resource.Title, id, action)
	}
	return renderRecord(cmd.OutOrStdout(), format, resource, record)
}
