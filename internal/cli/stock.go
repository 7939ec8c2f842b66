package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/cli/pagination"
	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

// NewStockCmd creates the stock command that shows per-store stock levels.
func NewStockCmd() *cobra.Command {
	var (
		productID int64
		storeID   int64
		page      int
		pageSize  int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Show stock levels per store",
		Long: `Shows stock levels. With --product and/or --store the matching rows are shown;
otherwise one page of all stock rows is listed.

Rows below their minimum stock are flagged LOW.`,
		Example: `  # Stock of product 12 in every store
  stockdesk stock --product 12

  # Stock of product 12 in store 3
  stockdesk stock --product 12 --store 3

  # Everything in store 3 as JSON
  stockdesk stock --store 3 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("page-size") {
				pageSize = config.GetPageSize()
			}
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			rows, total, err := fetchStock(cmd, productID, storeID, pagination.PaginationParams{Page: page, PageSize: pageSize})
			if err != nil {
				return wrapAPIError(err)
			}
			return renderStock(cmd.OutOrStdout(), format, rows, total)
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "product ID")
	cmd.Flags().Int64Var(&storeID, "store", 0, "store ID")
	cmd.Flags().IntVar(&page, "page", pagination.DefaultPage, "page number when listing all stock, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", pagination.DefaultPageSize, "results per page (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	return cmd
}

func fetchStock(cmd *cobra.Command, productID, storeID int64, page pagination.PaginationParams) ([]inventory.Stock, int64, error) {
	if productID < 0 || storeID < 0 {
		return nil, 0, errors.New("--product and --store must be positive")
	}
	svc, err := newServices(cmd)
	if err != nil {
		return nil, 0, err
	}
	ctx := cmd.Context()

	switch {
	case productID > 0 && storeID > 0:
		s, err := svc.Stock.ByProductAndStore(ctx, productID, storeID)
		if err != nil {
			return nil, 0, err
		}
		return []inventory.Stock{s}, 1, nil
	case productID > 0:
		rows, err := svc.Stock.ByProduct(ctx, productID)
		return rows, int64(len(rows)), err
	case storeID > 0:
		rows, err := svc.Stock.ByStore(ctx, storeID)
		return rows, int64(len(rows)), err
	default:
		if err = page.Validate(); err != nil {
			return nil, 0, err
		}
		result, err := svc.Stock.Page(ctx, page.WirePage(), page.PageSize)
		if err != nil {
			return nil, 0, err
		}
		return result.Content, result.TotalElements, nil
	}
}

func renderStock(w io.Writer, format string, rows []inventory.Stock, total int64) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No stock found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tSTORE\tQUANTITY\tMIN\tMAX\t")
	for _, r := range rows {
		store := r.StoreName
		if store == "" {
			store = strconv.FormatInt(r.StoreID, 10)
		}
		flag := ""
		if r.BelowMinimum() {
			flag = "LOW"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
			r.ProductID, store, r.Quantity, optionalInt(r.MinStock), optionalInt(r.MaxStock), flag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d row(s) total, %d unit(s) shown\n", total, inventory.Total(rows))
	return err
}

func optionalInt(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}
