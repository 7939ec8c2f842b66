package insights

import (
	"cmp"
	"fmt"
	"html"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

var severityMarks = map[string]string{ //nolint:gochecknoglobals // Static lookup table.
	SeverityCritical: "🔴",
	SeverityWarning:  "🟠",
	SeverityInfo:     "🔵",
	SeveritySuccess:  "🟢",
}

func mark(severity string) string {
	if m, ok := severityMarks[strings.ToUpper(severity)]; ok {
		return m
	}
	return "•"
}

// Markdown renders the dashboard panel. Critical alerts come first.
func (d DashboardAlerts) Markdown() string {
	var b strings.Builder
	b.WriteString("# Dashboard alerts\n\n")
	if d.Summary != "" {
		b.WriteString(d.Summary + "\n\n")
	}
	if len(d.Alerts) == 0 {
		b.WriteString("_No alerts._\n")
		return b.String()
	}
	for _, sev := range []string{SeverityCritical, SeverityWarning, SeverityInfo, SeveritySuccess, ""} {
		for _, a := range d.Alerts {
			if !matchesSeverity(a.Type, sev) {
				continue
			}
			fmt.Fprintf(&b, "- %s **%s**: %s", mark(a.Type), a.Title, a.Message)
			if a.Action != "" {
				fmt.Fprintf(&b, " _(%s)_", a.Action)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// matchesSeverity puts unknown types in the trailing "" bucket.
func matchesSeverity(t, bucket string) bool {
	t = strings.ToUpper(t)
	if bucket != "" {
		return t == bucket
	}
	_, known := severityMarks[t]
	return !known
}

// Markdown renders the inventory alert report as a table.
func (a InventoryAlerts) Markdown() string {
	var b strings.Builder
	b.WriteString("# Inventory alerts\n\n")
	if a.Summary != "" {
		b.WriteString(a.Summary + "\n\n")
	}
	if len(a.Alerts) == 0 {
		b.WriteString("_Stock levels look healthy._\n")
		return b.String()
	}
	b.WriteString("| | Code | Product | Stock | Days left | Recommendation |\n")
	b.WriteString("|---|---|---|---:|---:|---|\n")
	for _, al := range a.Alerts {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
			mark(al.Severity), cell(al.ProductCode), cell(al.ProductName), al.CurrentStock,
			optionalFloat(al.PredictedDaysRemaining), cell(al.Recommendation))
	}
	return b.String()
}

// Markdown renders the report, with the HTML body flattened to text.
func (r Report) Markdown() string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Report " + r.ReportType
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	writeSection(&b, "Summary", r.Summary)
	writeSection(&b, "Highlights", r.Highlights)
	writeSection(&b, "Details", HTMLToText(r.HTMLContent))
	writeSection(&b, "Recommendations", r.Recommendations)
	return b.String()
}

// Markdown renders the forecast recommendation after the items it covers.
func (f Forecast) Markdown() string {
	var b strings.Builder
	b.WriteString("# Inventory forecast\n\n")
	if len(f.Items) > 0 {
		b.WriteString("| Code | Product | Stock | Avg daily sales |\n")
		b.WriteString("|---|---|---:|---:|\n")
		for _, it := range f.Items {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", cell(it.Code), cell(it.Name), it.Quantity, optionalFloat(it.AvgDailySales))
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(f.Recommendation) + "\n")
	return b.String()
}

// ChatMarkdown renders one question and answer exchange.
func ChatMarkdown(question, answer string) string {
	return fmt.Sprintf("> %s\n\n%s\n", strings.TrimSpace(question), strings.TrimSpace(answer))
}

var (
	blockClose = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|tr|h[1-6]|table|ul|ol)>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	stripAll   = bluemonday.StrictPolicy()
)

// HTMLToText drops every tag from s, keeping block boundaries as line breaks.
func HTMLToText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = blockClose.ReplaceAllString(s, "$0\n")
	text := html.UnescapeString(stripAll.Sanitize(s))
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

func optionalFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', 1, 64)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func pct(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}

// confidence formats a 0..1 score as a whole percentage.
func confidence(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 0, 64) + "%" //nolint:mnd // Fraction to percent.
}

// writeSection writes a level-two section, skipping blank bodies.
func writeSection(b *strings.Builder, name, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", name, body)
}

func writeBullets(b *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", name)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(it))
	}
	b.WriteString("\n")
}

// Markdown renders the demand forecast, soonest reorders first.
func (d DemandForecast) Markdown() string {
	var b strings.Builder
	b.WriteString("# Demand forecast\n\n")
	if d.Summary != "" {
		b.WriteString(d.Summary + "\n\n")
	}
	if len(d.Forecasts) == 0 {
		b.WriteString("_Not enough sales history to forecast._\n")
		return b.String()
	}
	items := slices.Clone(d.Forecasts)
	slices.SortStableFunc(items, func(x, y DemandItem) int {
		return cmp.Compare(x.PredictedDaysUntilReorder, y.PredictedDaysUntilReorder)
	})
	b.WriteString("| Code | Product | Stock | Reorder in (days) | Order qty | Optimal | Confidence |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, it := range items {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %d | %d | %s |\n",
			cell(it.ProductCode), cell(it.ProductName), it.CurrentStock,
			strconv.FormatFloat(it.PredictedDaysUntilReorder, 'f', 1, 64),
			it.RecommendedQuantity, it.OptimalStockLevel, confidence(it.Confidence))
	}
	b.WriteString("\n")
	writeSection(&b, "Analysis", d.Analysis)
	return b.String()
}

// Markdown renders a single product forecast with its daily outlook.
func (p ProductForecast) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Demand forecast: %s %s\n\n", p.ProductCode, p.ProductName)
	fmt.Fprintf(&b, "- Current stock: %d\n", p.CurrentStock)
	fmt.Fprintf(&b, "- Average daily sales: %s\n", strconv.FormatFloat(p.AvgDailySales, 'f', 2, 64))
	fmt.Fprintf(&b, "- Days until stock-out: %s\n", optionalFloat(p.PredictedDaysUntilStockOut))
	fmt.Fprintf(&b, "- Reorder quantity: %s\n", optionalInt(p.RecommendedReorderQuantity))
	fmt.Fprintf(&b, "- Optimal stock level: %s\n", optionalInt(p.OptimalStockLevel))
	fmt.Fprintf(&b, "- Confidence: %s\n\n", confidence(p.Confidence))
	if len(p.DailyForecasts) > 0 {
		b.WriteString("| Day | Date | Predicted sales | Predicted stock |\n")
		b.WriteString("|---:|---|---:|---:|\n")
		for _, d := range p.DailyForecasts {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", d.Day, cell(d.Date),
				strconv.FormatFloat(d.PredictedSales, 'f', 1, 64),
				strconv.FormatFloat(d.PredictedStock, 'f', 1, 64))
		}
		b.WriteString("\n")
	}
	writeSection(&b, "Analysis", p.DetailedAnalysis)
	writeSection(&b, "Recommendations", p.Recommendations)
	return b.String()
}

// Markdown renders the three ABC classes in order.
func (a ABCAnalysis) Markdown() string {
	var b strings.Builder
	b.WriteString("# ABC analysis\n\n")
	for _, class := range []struct {
		name string
		rows []ABCProduct
	}{{"A", a.CategoryA}, {"B", a.CategoryB}, {"C", a.CategoryC}} {
		fmt.Fprintf(&b, "## Class %s (%d products)\n\n", class.name, len(class.rows))
		if len(class.rows) == 0 {
			b.WriteString("_None._\n\n")
			continue
		}
		b.WriteString("| Code | Product | Revenue | Share | Quantity |\n")
		b.WriteString("|---|---|---:|---:|---:|\n")
		for _, p := range class.rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
				cell(p.Code), cell(p.Name), money(p.Revenue), pct(p.Percentage), p.Quantity)
		}
		b.WriteString("\n")
	}
	writeSection(&b, "Analysis", a.Analysis)
	writeSection(&b, "Recommendations", a.Recommendations)
	return b.String()
}

// Markdown renders the trend table followed by its reading.
func (t SalesTrend) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sales trend (%s)\n\n", strings.ToLower(t.Period))
	if t.Trend != "" {
		fmt.Fprintf(&b, "Trend: **%s**, growth %s\n\n", t.Trend, pct(t.GrowthRate))
	}
	if len(t.TrendData) > 0 {
		b.WriteString("| Period | Revenue | Orders | Growth |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, p := range t.TrendData {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", cell(p.Label), money(p.Revenue), p.Orders, pct(p.Growth))
		}
		b.WriteString("\n")
	}
	writeSection(&b, "Analysis", t.Analysis)
	writeSection(&b, "Forecast", t.Forecast)
	writeBullets(&b, "Top products", t.TopProducts)
	writeBullets(&b, "Recommendations", t.Recommendations)
	return b.String()
}

func writeProductSales(b *strings.Builder, name string, rows []ProductSales, extra func(ProductSales) string) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", name)
	b.WriteString("| Code | Product | Revenue | Sold | Note |\n")
	b.WriteString("|---|---|---:|---:|---|\n")
	for _, p := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %d | %s |\n",
			cell(p.ProductCode), cell(p.ProductName), money(p.Revenue), p.QuantitySold, cell(extra(p)))
	}
	b.WriteString("\n")
}

// Markdown renders the sales insight report.
func (s SalesInsights) Markdown() string {
	var b strings.Builder
	b.WriteString("# Sales insights\n\n")
	r := s.RevenueAnalysis
	fmt.Fprintf(&b, "Revenue %s against %s before (%s, %s).\n\n",
		money(r.CurrentRevenue), money(r.PreviousRevenue), strings.ToLower(r.Trend), pct(r.GrowthRate))
	if r.Reason != "" {
		b.WriteString(r.Reason + "\n\n")
	}
	writeProductSales(&b, "Top products", s.TopProducts, func(p ProductSales) string {
		return "#" + strconv.Itoa(p.Rank)
	})
	writeProductSales(&b, "Declining products", s.DecliningProducts, func(p ProductSales) string {
		return "-" + pct(p.RevenueDecline) + " " + p.Reason
	})
	writeProductSales(&b, "Seasonal products", s.SeasonalProducts, func(p ProductSales) string {
		return p.Season + " x" + strconv.FormatFloat(p.SeasonalMultiplier, 'f', 1, 64)
	})
	if h := s.BestSellingHours; len(h.HourlyData) > 0 || h.PeakHours != "" {
		b.WriteString("## Best selling hours\n\n")
		if h.PeakHours != "" {
			fmt.Fprintf(&b, "Peak: %s\n\n", h.PeakHours)
		}
		if len(h.HourlyData) > 0 {
			b.WriteString("| Hour | Revenue | Orders |\n")
			b.WriteString("|---:|---:|---:|\n")
			for _, hr := range h.HourlyData {
				fmt.Fprintf(&b, "| %02d:00 | %s | %d |\n", hr.Hour, money(hr.Revenue), hr.OrderCount)
			}
			b.WriteString("\n")
		}
	}
	writeSection(&b, "Analysis", s.OverallAnalysis)
	return b.String()
}

// Markdown renders the turnover report, dead stock before overstock.
func (t InventoryTurnover) Markdown() string {
	var b strings.Builder
	b.WriteString("# Inventory turnover\n\n")
	fmt.Fprintf(&b, "Overall turnover rate: **%s**\n\n", strconv.FormatFloat(t.OverallTurnoverRate, 'f', 2, 64))
	if len(t.ProductTurnovers) > 0 {
		b.WriteString("## Products\n\n")
		b.WriteString("| Code | Product | Turnover | Days in stock | Efficiency |\n")
		b.WriteString("|---|---|---:|---:|---|\n")
		for _, p := range t.ProductTurnovers {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", cell(p.ProductCode), cell(p.ProductName),
				strconv.FormatFloat(p.TurnoverRate, 'f', 2, 64),
				strconv.FormatFloat(p.DaysInStock, 'f', 0, 64), cell(p.Efficiency))
		}
		b.WriteString("\n")
	}
	if len(t.DeadStocks) > 0 {
		b.WriteString("## Dead stock\n\n")
		b.WriteString("| Code | Product | Quantity | Days since sale | Value | Recommendation |\n")
		b.WriteString("|---|---|---:|---:|---:|---|\n")
		for _, d := range t.DeadStocks {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %s | %s |\n", cell(d.ProductCode), cell(d.ProductName),
				d.Quantity, d.DaysSinceLastSale, money(d.TotalValue), cell(d.Recommendation))
		}
		b.WriteString("\n")
	}
	if len(t.OverstockedItems) > 0 {
		b.WriteString("## Overstock\n\n")
		b.WriteString("| Code | Product | Stock | Optimal | Excess | Recommendation |\n")
		b.WriteString("|---|---|---:|---:|---:|---|\n")
		for _, o := range t.OverstockedItems {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %s |\n", cell(o.ProductCode), cell(o.ProductName),
				o.CurrentStock, o.OptimalStock, o.ExcessQuantity, cell(o.Recommendation))
		}
		b.WriteString("\n")
	}
	writeSection(&b, "Analysis", t.Analysis)
	writeBullets(&b, "Recommendations", t.Recommendations)
	return b.String()
}

// Markdown renders stock bands, placement and per-category advice.
func (s StockOptimization) Markdown() string {
	var b strings.Builder
	b.WriteString("# Stock optimization\n\n")
	if s.Summary != "" {
		b.WriteString(s.Summary + "\n\n")
	}
	if len(s.Optimizations) > 0 {
		b.WriteString("## Stock levels\n\n")
		b.WriteString("| Code | Product | Stock | Min | Max | Reorder qty | Reasoning |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|---|\n")
		for _, o := range s.Optimizations {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d | %s |\n", cell(o.ProductCode), cell(o.ProductName),
				o.CurrentStock, o.MinStock, o.MaxStock, o.OptimalReorderQuantity, cell(o.Reasoning))
		}
		b.WriteString("\n")
	}
	if len(s.WarehouseRecommendations) > 0 {
		b.WriteString("## Placement\n\n")
		b.WriteString("| Code | Product | Store | Reasoning |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, w := range s.WarehouseRecommendations {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(w.ProductCode), cell(w.ProductName),
				cell(w.RecommendedStoreName), cell(w.Reasoning))
		}
		b.WriteString("\n")
	}
	for _, c := range s.CategoryOptimizations {
		fmt.Fprintf(&b, "## Category %s\n\n", c.CategoryName)
		if a := strings.TrimSpace(c.Analysis); a != "" {
			b.WriteString(a + "\n\n")
		}
		for _, r := range c.Recommendations {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(r))
		}
		if len(c.Recommendations) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Markdown renders each suggested bundle with its saving.
func (c ComboSuggestions) Markdown() string {
	var b strings.Builder
	b.WriteString("# Combo suggestions\n\n")
	if len(c.Combos) == 0 {
		b.WriteString("_No bundles found in recent orders._\n\n")
	}
	for _, combo := range c.Combos {
		fmt.Fprintf(&b, "## %s\n\n", combo.Name)
		fmt.Fprintf(&b, "%s instead of %s (%s off)", money(combo.ComboPrice), money(combo.OriginalPrice), pct(combo.Discount))
		if combo.TargetCustomer != "" {
			fmt.Fprintf(&b, ", for %s", combo.TargetCustomer)
		}
		b.WriteString("\n\n")
		for _, it := range combo.Items {
			fmt.Fprintf(&b, "- %d x %s %s @ %s\n", it.Quantity, it.Code, it.Name, money(it.Price))
		}
		if combo.Reason != "" {
			fmt.Fprintf(&b, "\n%s\n", combo.Reason)
		}
		b.WriteString("\n")
	}
	writeSection(&b, "Analysis", c.Analysis)
	return b.String()
}

func optionalInt(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}
