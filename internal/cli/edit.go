package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
)

const maxPayloadBytes = 1 << 20

// NewCreateCmd creates the create command that posts a new record from a JSON file.
func NewCreateCmd() *cobra.Command {
	var file, output string

	cmd := &cobra.Command{
		Use:   "create <resource> -f <file>",
		Short: "Create a record from JSON",
		Long: `Creates a record from a JSON payload. Use -f - to read the payload from stdin.

Fields the resource does not know are rejected before anything is sent.`,
		Example: `  # Create a unit
  echo '{"name":"Box","description":"Carton of 24"}' | stockdesk create units -f -

  # Create a product from a file and print the stored record as JSON
  stockdesk create products -f product.json -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: resourceCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, "create", args[0], "", file, output)
		},
	}

	registerEditFlags(cmd, &file, &output)
	return cmd
}

// NewUpdateCmd creates the update command that replaces a record from a JSON file.
func NewUpdateCmd() *cobra.Command {
	var file, output string

	cmd := &cobra.Command{
		Use:   "update <resource> <id> -f <file>",
		Short: "Replace a record from JSON",
		Long: `Replaces a record with a JSON payload. The payload must carry every field,
as the backend replaces the whole record. Use -f - to read from stdin.`,
		Example: `  # Rename store 2
  stockdesk get stores 2 -o json | jq '.name = "Branch 2"' | stockdesk update stores 2 -f -`,
		Args:              cobra.ExactArgs(2), //nolint:mnd // resource and id
		ValidArgsFunction: resourceCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, "update", args[0], args[1], file, output)
		},
	}

	registerEditFlags(cmd, &file, &output)
	return cmd
}

func registerEditFlags(cmd *cobra.Command, file, output *string) {
	cmd.Flags().StringVarP(file, "file", "f", "", "JSON payload file, or - for stdin (required)")
	cmd.Flags().StringVarP(output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	_ = cmd.MarkFlagRequired("file")
}

func resourceCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return inventory.ResourceNames(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// runEdit creates a record when rawID is empty and replaces it otherwise.
func runEdit(cmd *cobra.Command, operation, name, rawID, file, output string) error {
	ctx := cmd.Context()
	start := time.Now()

	format, err := resolveOutputFormat(output)
	if err != nil {
		return err
	}
	var id int64
	if rawID != "" {
		if id, err = parseID(rawID); err != nil {
			return err
		}
	}
	raw, err := readPayload(cmd, file)
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

	params := map[string]string{"resource": resource.Name}
	var record inventory.Record
	if rawID == "" {
		record, err = browser.CreateJSON(ctx, raw)
	} else {
		params["id"] = strconv.FormatInt(id, 10)
		record, err = browser.UpdateJSON(ctx, id, raw)
	}
	audit(ctx, operation, params, start, err)
	if err != nil {
		return wrapAPIError(err)
	}

	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "cli").
		Str("operation", operation).
		Str("resource", resource.Name).
		Int64("id", record.RowID()).
		Msg("record saved")

	if format == OutputTable {
		verb := "Created"
		if rawID != "" {
			verb = "Updated"
		}
		cmd.Printf("%s %s %d\n", verb, resource.Name, record.RowID())
	}
	return renderRecord(cmd.OutOrStdout(), format, resource, record)
}

func readPayload(cmd *cobra.Command, file string) ([]byte, error) {
	var r io.Reader
	if file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	if len(data) > maxPayloadBytes {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", inventory.ErrInvalidPayload, maxPayloadBytes)
	}
	return data, nil
}
