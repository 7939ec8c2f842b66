package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/insights"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
	"github.com/stockdesk/stockdesk/internal/tui"
)

const (
	defaultPrintWidth    = 80
	defaultForecastLimit = 20
)

// reportFlags control how a report is shown.
type reportFlags struct {
	plain bool
	raw   bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.plain, "plain", false, "print the report instead of opening the viewer")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "print the Markdown source without rendering")
}

// insightsFromCmd builds the insights service from configuration.
func insightsFromCmd(cmd *cobra.Command) (*insights.Service, error) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, err
	}
	return insights.NewService(client), nil
}

// showReport opens the report viewer in a terminal, otherwise prints the
// rendered Markdown.
func showReport(cmd *cobra.Command, title string, flags reportFlags, fetch tui.MarkdownFetcher) error {
	ctx := cmd.Context()

	if !flags.plain && !flags.raw && tui.IsTTY(os.Stdout) {
		model, err := tui.NewReportViewModel(ctx, title, fetch, insights.StyleDark)
		if err != nil {
			return err
		}
		final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("failed to run report viewer: %w", err)
		}
		if m, ok := final.(*tui.ReportViewModel); ok && m.Err() != nil {
			return wrapAPIError(m.Err())
		}
		return nil
	}

	md, err := fetch(ctx)
	if err != nil {
		return wrapAPIError(err)
	}
	if flags.raw {
		_, err = fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	out := insights.Render(md, tui.TerminalWidth(defaultPrintWidth), insights.StyleNoTTY, *logging.FromContext(ctx))
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// NewReportAlertsCmd creates the dashboard alerts report.
func NewReportAlertsCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:     "alerts",
		Short:   "Dashboard alerts, most severe first",
		Example: `  stockdesk report alerts --plain`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := insightsFromCmd(cmd)
			if err != nil {
				return err
			}
			return showReport(cmd, "Dashboard alerts", flags, func(ctx context.Context) (string, error) {
				alerts, err := svc.DashboardAlerts(ctx)
				if err != nil {
					return "", err
				}
				return alerts.Markdown(), nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// NewReportInventoryAlertsCmd creates the smart inventory alerts report.
func NewReportInventoryAlertsCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:     "inventory-alerts",
		Short:   "Products running low or overstocked",
		Example: `  stockdesk report inventory-alerts`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := insightsFromCmd(cmd)
			if err != nil {
				return err
			}
			return showReport(cmd, "Inventory alerts", flags, func(ctx context.Context) (string, error) {
				alerts, err := svc.InventoryAlerts(ctx)
				if err != nil {
					return "", err
				}
				return alerts.Markdown(), nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// NewReportGenerateCmd creates the generated business report.
func NewReportGenerateCmd() *cobra.Command {
	var (
		flags reportFlags
		req   insights.ReportRequest
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a business report",
		Long: fmt.Sprintf(`Asks the backend to generate a report.

Types: %s
Periods: %s`, strings.Join(insights.ReportTypes, ", "), strings.Join(insights.ReportPeriods, ", ")),
		Example: `  # Weekly report over everything
  stockdesk report generate

  # Monthly sales report for a fixed range
  stockdesk report generate --type sales --period monthly --from 2025-01-01 --to 2025-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := insightsFromCmd(cmd)
			if err != nil {
				return err
			}
			title := "Report"
			if req.ReportType != "" {
				title = strings.ToUpper(req.ReportType[:1]) + strings.ToLower(req.ReportType[1:]) + " report"
			}
			return showReport(cmd, title, flags, func(ctx context.Context) (string, error) {
				report, err := svc.GenerateReport(ctx, req)
				if err != nil {
					return "", err
				}
				return report.Markdown(), nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&req.ReportType, "type", "", "report type (default ALL)")
	cmd.Flags().StringVar(&req.Period, "period", "", "report period (default WEEKLY)")
	cmd.Flags().StringVar(&req.StartDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

// NewReportChatCmd creates the assistant chat command.
func NewReportChatCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:     "chat <message>",
		Short:   "Ask the inventory assistant a question",
		Example: `  stockdesk report chat "Which products should I reorder this week?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := insightsFromCmd(cmd)
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			return showReport(cmd, "Assistant", flags, func(ctx context.Context) (string, error) {
				answer, err := svc.Chat(ctx, question)
				if err != nil {
					return "", err
				}
				return insights.ChatMarkdown(question, answer), nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// NewReportForecastCmd creates the restocking forecast over the first products.
func NewReportForecastCmd() *cobra.Command {
	var (
		flags  reportFlags
		limit  int
		search string
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Restocking forecast for products",
		Long: `Sends the current stock of up to --limit products to the forecasting endpoint
and shows its recommendation.`,
		Example: `  # Forecast the first 20 products
  stockdesk report forecast

  # Forecast products matching a name
  stockdesk report forecast --search "notebook" --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			svc, err := newServices(cmd)
			if err != nil {
				return err
			}
			ai, err := insightsFromCmd(cmd)
			if err != nil {
				return err
			}
			return showReport(cmd, "Inventory forecast", flags, func(ctx context.Context) (string, error) {
				page, err := svc.Products.Search(ctx, inventory.SearchParams{Name: search, Size: limit})
				if err != nil {
					return "", err
				}
				forecast, err := ai.Forecast(ctx, forecastItems(page.Content))
				if err != nil {
					return "", err
				}
				return forecast.Markdown(), nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", defaultForecastLimit, "maximum number of products to include")
	cmd.Flags().StringVar(&search, "search", "", "only products whose name matches")
	return cmd
}

// forecastItems maps products onto forecast input, preferring the stock
// quantity over the catalogue quantity.
func forecastItems(products []inventory.Product) []insights.ForecastItem {
	items := make([]insights.ForecastItem, 0, len(products))
	for _, p := range products {
		var qty int64
		switch {
		case p.StockQuantity != nil:
			qty = *p.StockQuantity
		case p.Quantity != nil:
			qty = *p.Quantity
		}
		items = append(items, insights.ForecastItem{Code: p.Code, Name: p.Name, Quantity: qty})
	}
	return items
}
