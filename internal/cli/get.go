package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCmd creates the get command that shows one record.
func NewGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record",
		Example: `  # Show product 12
  stockdesk get products 12

  # Show an export receipt as JSON, including its line items
  stockdesk get exports 7 -o json`,
		Args: cobra.ExactArgs(2), //nolint:mnd // resource and id
		ValidArgsFunction: resourceCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			svc, err := newServices(cmd)
			if err != nil {
				return err
			}
			browser, err := svc.Browser(args[0])
			if err != nil {
				return err
			}
			record, err := browser.GetRecord(cmd.Context(), id)
			if err != nil {
				return wrapAPIError(fmt.Errorf("reading %s %d: %w", browser.Resource().Name, id, err))
			}
			return renderRecord(cmd.OutOrStdout(), format, browser.Resource(), record)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	return cmd
}
