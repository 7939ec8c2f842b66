package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/insights"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

func TestReport_Alerts(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"GET /api/ai/dashboard-alerts": `{"alerts":[
			{"type":"INFO","title":"Sync done","message":"all stores synced"},
			{"type":"CRITICAL","title":"Low stock","message":"P001 below minimum"}
		],"summary":"2 alerts"}`,
	})

	out, err := execute(t, b.URL, "", "report", "alerts", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Dashboard alerts")
	assert.Less(t, strings.Index(out, "Low stock"), strings.Index(out, "Sync done"), "critical alerts come first")

	out, err = execute(t, b.URL, "", "report", "alerts", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "P001 below minimum")
}

func TestReport_Generate(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"POST /api/ai/generate-report": `{"reportType":"SALES","title":"Sales","summary":"Revenue is up.",
			"htmlContent":"<p>Stores <b>1</b> and 2</p>","highlights":"","recommendations":"Restock pens."}`,
	})

	out, err := execute(t, b.URL, "", "report", "generate", "--type", "sales", "--period", "monthly", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "Revenue is up.")
	assert.Contains(t, out, "Stores 1 and 2")
	assert.NotContains(t, out, "Highlights")

	calls := b.Calls()
	require.Len(t, calls, 1)
	var req insights.ReportRequest
	require.NoError(t, json.Unmarshal([]byte(calls[0].body), &req))
	assert.Equal(t, insights.ReportSales, req.ReportType)
	assert.Equal(t, insights.PeriodMonthly, req.Period)

	_, err = execute(t, b.URL, "", "report", "generate", "--type", "weather", "--raw")
	require.ErrorIs(t, err, insights.ErrInvalidRequest)
}

func TestReport_Chat(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{"POST /api/ai/chat": `{"message":"Reorder pens."}`})

	out, err := execute(t, b.URL, "", "report", "chat", "What", "should", "I", "reorder?", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "> What should I reorder?")
	assert.Contains(t, out, "Reorder pens.")
	assert.JSONEq(t, `{"message":"What should I reorder?"}`, b.Calls()[0].body)
}

func TestReport_Forecast(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"GET /api/products/search":       productsPage,
		"POST /api/ai/inventory-forecast": `{"recommendation":"Order 200 units of P001."}`,
	})

	out, err := execute(t, b.URL, "", "report", "forecast", "--limit", "2", "--search", "pen", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "| P001 |")
	assert.Contains(t, out, "Order 200 units of P001.")

	calls := b.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "name=pen&page=0&size=2", calls[0].query)
	assert.JSONEq(t, `{"items":[
		{"code":"P001","name":"Ballpoint pen","quantity":120},
		{"code":"P002","name":"A4 paper","quantity":0}
	]}`, calls[1].body)

	_, err = execute(t, b.URL, "", "report", "forecast", "--limit", "0")
	require.Error(t, err)
}

func TestForecastItems_PrefersStockQuantity(t *testing.T) {
	stock, qty := int64(7), int64(99)
	items := forecastItems([]inventory.Product{
		{Code: "A", StockQuantity: &stock, Quantity: &qty},
		{Code: "B", Quantity: &qty},
		{Code: "C"},
	})
	require.Len(t, items, 3)
	assert.Equal(t, int64(7), items[0].Quantity)
	assert.Equal(t, int64(99), items[1].Quantity)
	assert.Zero(t, items[2].Quantity)
}
