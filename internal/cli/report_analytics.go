package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/insights"
	"github.com/stockdesk/stockdesk/internal/tui"
)

// markdownPanel is any insights response that renders itself.
type markdownPanel interface {
	Markdown() string
}

func panel[P markdownPanel](get func(ctx context.Context) (P, error)) tui.MarkdownFetcher {
	return func(ctx context.Context) (string, error) {
		p, err := get(ctx)
		if err != nil {
			return "", err
		}
		return p.Markdown(), nil
	}
}

// newPanelCmd builds a report subcommand that fetches one panel and shows it.
func newPanelCmd(
	cmd *cobra.Command,
	title string,
	fetch func(cmd *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error),
) *cobra.Command {
	var flags reportFlags
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		svc, err := insightsFromCmd(cmd)
		if err != nil {
			return err
		}
		f, err := fetch(cmd, svc)
		if err != nil {
			return err
		}
		return showReport(cmd, title, flags, f)
	}
	flags.register(cmd)
	return cmd
}

// NewReportDemandCmd creates the demand forecast report.
func NewReportDemandCmd() *cobra.Command {
	var (
		product int64
		days    int
	)
	cmd := newPanelCmd(&cobra.Command{
		Use:   "demand-forecast",
		Short: "Reorder timing and quantities from sales history",
		Long: `Forecasts demand for every product with sales history, soonest reorders first.

With --product the forecast covers one product day by day.`,
		Example: `  stockdesk report demand-forecast
  stockdesk report demand-forecast --product 12 --days 14`,
	}, "Demand forecast", func(_ *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error) {
		if product == 0 {
			return panel(svc.DemandForecast), nil
		}
		return panel(func(ctx context.Context) (insights.ProductForecast, error) {
			return svc.ProductDemandForecast(ctx, product, days)
		}), nil
	})
	cmd.Flags().Int64Var(&product, "product", 0, "forecast a single product by id")
	cmd.Flags().IntVar(&days, "days", insights.DefaultInsightDays, "days to forecast with --product")
	return cmd
}

// NewReportABCCmd creates the ABC analysis report.
func NewReportABCCmd() *cobra.Command {
	return newPanelCmd(&cobra.Command{
		Use:     "abc",
		Short:   "Classify products by their share of revenue",
		Example: `  stockdesk report abc --plain`,
	}, "ABC analysis", func(_ *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error) {
		return panel(svc.ABCAnalysis), nil
	})
}

// NewReportSalesTrendCmd creates the sales trend report.
func NewReportSalesTrendCmd() *cobra.Command {
	var period string
	cmd := newPanelCmd(&cobra.Command{
		Use:     "sales-trend",
		Short:   "Revenue per week, month or quarter",
		Example: `  stockdesk report sales-trend --period monthly`,
	}, "Sales trend", func(_ *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error) {
		p, err := insights.NormalizeTrendPeriod(period)
		if err != nil {
			return nil, err
		}
		return panel(func(ctx context.Context) (insights.SalesTrend, error) {
			return svc.SalesTrend(ctx, p)
		}), nil
	})
	cmd.Flags().StringVar(&period, "period", "weekly", "bucket size: weekly, monthly or quarterly")
	return cmd
}

// NewReportSalesInsightsCmd creates the sales insights report.
func NewReportSalesInsightsCmd() *cobra.Command {
	var days int
	cmd := newPanelCmd(&cobra.Command{
		Use:     "sales-insights",
		Short:   "Top, declining and seasonal products and peak hours",
		Example: `  stockdesk report sales-insights --days 7`,
	}, "Sales insights", func(_ *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error) {
		return panel(func(ctx context.Context) (insights.SalesInsights, error) {
			return svc.SalesInsights(ctx, days)
		}), nil
	})
	cmd.Flags().IntVar(&days, "days", insights.DefaultInsightDays, "look-back window in days")
	return cmd
}

// NewReportTurnoverCmd creates the inventory turnover report.
func NewReportTurnoverCmd() *cobra.Command {
	var days int
	cmd := newPanelCmd(&cobra.Command{
		Use:     "turnover",
		Short:   "Turnover rates, dead stock and overstock",
		Example: `  stockdesk report turnover --days 180`,
	}, "Inventory turnover", func(_ *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error) {
		return panel(func(ctx context.Context) (insights.InventoryTurnover, error) {
			return svc.InventoryTurnover(ctx, days)
		}), nil
	})
	cmd.Flags().IntVar(&days, "days", insights.DefaultTurnoverDays, "analysis period in days")
	return cmd
}

// NewReportStockOptimizationCmd creates the stock optimization report.
func NewReportStockOptimizationCmd() *cobra.Command {
	return newPanelCmd(&cobra.Command{
		Use:     "stock-optimization",
		Short:   "Min and max stock bands and store placement",
		Example: `  stockdesk report stock-optimization`,
	}, "Stock optimization", func(_ *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error) {
		return panel(svc.StockOptimization), nil
	})
}

// NewReportCombosCmd creates the combo suggestions report.
func NewReportCombosCmd() *cobra.Command {
	return newPanelCmd(&cobra.Command{
		Use:     "combos",
		Short:   "Product bundles often bought together",
		Example: `  stockdesk report combos --raw > combos.md`,
	}, "Combo suggestions", func(_ *cobra.Command, svc *insights.Service) (tui.MarkdownFetcher, error) {
		return panel(svc.ComboSuggestions), nil
	})
}
