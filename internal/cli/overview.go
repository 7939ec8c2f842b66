package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stockdesk/stockdesk/internal/api"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
)

// pendingStatus is the workflow state counted as awaiting action.
const pendingStatus = "PENDING"

// OverviewRow is the record count of one resource.
type OverviewRow struct {
	Resource string `json:"resource"`
	Title    string `json:"title"`
	Total    int64  `json:"total"`
	// Pending is set for workflow resources only.
	Pending *int64 `json:"pending,omitempty"`
	Error   string `json:"error,omitempty"`

	err error
}

// NewOverviewCmd creates the "overview" command that shows record counts for
// every resource, fetched concurrently.
func NewOverviewCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Record counts for every resource",
		Long: `Shows how many records each resource holds, and how many receipts and
inventory checks are still pending. Counts are fetched concurrently; a resource
that fails is reported without hiding the others.`,
		Example: `  # Overview table
  stockdesk overview

  # As JSON
  stockdesk overview -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			svc, err := newServices(cmd)
			if err != nil {
				return err
			}
			rows := fetchOverview(cmd.Context(), svc.Browsers())
			if err = overviewError(rows); err != nil {
				return err
			}
			return renderOverview(cmd.OutOrStdout(), format, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	return cmd
}

// fetchOverview counts every browser concurrently. Rows keep the order of browsers.
func fetchOverview(ctx context.Context, browsers []inventory.Browser) []OverviewRow {
	log := logging.FromContext(ctx)
	rows := make([]OverviewRow, len(browsers))

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, b := range browsers {
		g.Go(func() error {
			row := countResource(gCtx, b)
			if row.err != nil {
				log.Debug().Ctx(gCtx).
					Str("component", "cli").
					Str("operation", "overview").
					Str("resource", row.Resource).
					Err(row.err).
					Msg("count failed")
			}
			mu.Lock()
			rows[i] = row
			mu.Unlock()
			// one failing resource must not cancel the others
			return nil
		})
	}
	_ = g.Wait()

	return rows
}

func countResource(ctx context.Context, b inventory.Browser) OverviewRow {
	r := b.Resource()
	row := OverviewRow{Resource: r.Name, Title: r.Title}

	page, err := b.SearchRecords(ctx, inventory.SearchParams{Size: 1})
	if err != nil {
		row.err, row.Error = err, err.Error()
		return row
	}
	row.Total = page.TotalElements

	if r.Filters.Status == "" {
		return row
	}
	pending, err := b.SearchRecords(ctx, inventory.SearchParams{Status: pendingStatus, Size: 1})
	if err != nil {
		row.err, row.Error = err, err.Error()
		return row
	}
	row.Pending = &pending.TotalElements
	return row
}

// overviewError returns the login hint when every resource failed on authentication.
func overviewError(rows []OverviewRow) error {
	var firstErr error
	for _, r := range rows {
		if r.err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = r.err
		}
	}
	if firstErr == nil {
		return nil
	}
	if api.IsAuthError(firstErr) {
		return wrapAPIError(firstErr)
	}
	return fmt.Errorf("overview: every resource failed: %w", errors.Join(collectErrors(rows)...))
}

func collectErrors(rows []OverviewRow) []error {
	errs := make([]error, 0, len(rows))
	for _, r := range rows {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Resource, r.err))
		}
	}
	return errs
}

func renderOverview(w io.Writer, format string, rows []OverviewRow) error {
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

	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RESOURCE\tTOTAL\tPENDING\t")
	for _, r := range rows {
		if r.err != nil {
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.Title, "error", "-")
			continue
		}
		pending := "-"
		if r.Pending != nil {
			pending = p.Sprintf("%d", *r.Pending)
		}
		p.Fprintf(tw, "%s\t%d\t%s\t\n", r.Title, r.Total, pending)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range rows {
		if r.err != nil {
			fmt.Fprintf(w, "\nWarning: %s: %s", r.Resource, r.Error)
		}
	}
	if len(collectErrors(rows)) > 0 {
		fmt.Fprintln(w)
	}
	return nil
}
