package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/cli/pagination"
	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
	"github.com/stockdesk/stockdesk/internal/tui"
)

// searchFlags are the filter flags shared by list and browse.
type searchFlags struct {
	search string
	code   string
	phone  string
	kind   string
	status string
	from   string
	to     string
	sort   string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "free-text search (name where supported, otherwise code)")
	cmd.Flags().StringVar(&f.code, "code", "", "filter by code")
	cmd.Flags().StringVar(&f.phone, "phone", "", "filter by phone (suppliers, customers, stores)")
	cmd.Flags().StringVar(&f.kind, "type", "", "filter by type (suppliers)")
	cmd.Flags().StringVar(&f.status, "status", "", "filter by status (receipts and checks), ALL for any")
	cmd.Flags().StringVar(&f.from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort as field[:asc|desc] (e.g., createdAt:desc)")
}

// filters converts the flags into browser filters.
func (f *searchFlags) filters() (tui.Filters, error) {
	field, order, err := pagination.ParseSort(f.sort)
	if err != nil {
		return tui.Filters{}, err
	}
	if field == "" {
		order = ""
	}
	return tui.Filters{
		Query:  strings.TrimSpace(f.search),
		Status: f.status,
		From:   f.from,
		To:     f.to,
		Sort:   field,
		Dir:    order,
	}, nil
}

// params builds the search parameters for one page of resource.
func (f *searchFlags) params(r inventory.Resource, page pagination.PaginationParams) (inventory.SearchParams, error) {
	filters, err := f.filters()
	if err != nil {
		return inventory.SearchParams{}, err
	}
	p := filters.Params(r, page.WirePage(), page.PageSize)
	if f.code != "" {
		p.Code = f.code
	}
	p.Phone = f.phone
	p.Type = f.kind
	if err = p.Validate(); err != nil {
		return inventory.SearchParams{}, err
	}
	return p, nil
}

// NewListCmd creates the list command that prints one page of a resource.
func NewListCmd() *cobra.Command {
	var (
		flags    searchFlags
		page     int
		pageSize int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List one page of a resource",
		Long: fmt.Sprintf(`Lists one page of a resource, filtered and sorted by the backend.

Resources: %s

Pages are numbered from 1. Filters a resource does not support are ignored.`,
			strings.Join(inventory.ResourceNames(), ", ")),
		Example: `  # First page of products
  stockdesk list products

  # Pending imports in January, as JSON
  stockdesk list imports --status PENDING --from 2025-01-01 --to 2025-01-31 --output json

  # Customers matching a name, 50 per page, page 3
  stockdesk list customers --search "Nguyen" --page-size 50 --page 3

  # Stream every product on a page as NDJSON
  stockdesk list products --output ndjson`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: inventory.ResourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("page-size") {
				pageSize = config.GetPageSize()
			}
			return runList(cmd, args[0], &flags, pagination.PaginationParams{Page: page, PageSize: pageSize}, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&page, "page", pagination.DefaultPage, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", pagination.DefaultPageSize, "results per page (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")

	return cmd
}

func runList(cmd *cobra.Command, name string, flags *searchFlags, page pagination.PaginationParams, output string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := resolveOutputFormat(output)
	if err != nil {
		return err
	}
	if err = page.Validate(); err != nil {
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

	params, err := flags.params(resource, page)
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "list").
		Str("resource", resource.Name).
		Int("page", params.Page).
		Int("size", params.Size).
		Msg("listing resource")

	result, err := browser.SearchRecords(ctx, params)
	if err != nil {
		return wrapAPIError(fmt.Errorf("listing %s: %w", resource.Name, err))
	}

	meta := pagination.NewPaginationMeta(result.Number, page.PageSize, result.TotalPages, result.TotalElements)
	return renderList(cmd.OutOrStdout(), format, resource, result.Content, meta)
}
