package insights

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Sales trend periods.
const (
	TrendWeekly    = "WEEKLY"
	TrendMonthly   = "MONTHLY"
	TrendQuarterly = "QUARTERLY"
)

// TrendPeriods lists the periods accepted by SalesTrend.
var TrendPeriods = []string{TrendWeekly, TrendMonthly, TrendQuarterly} //nolint:gochecknoglobals // Static list.

// Default look-back windows, in days.
const (
	DefaultInsightDays  = 30
	DefaultTurnoverDays = 90
	MaxAnalysisDays     = 365
)

// DemandItem is the restocking outlook for one product.
type DemandItem struct {
	ProductID                 int64   `json:"productId"`
	ProductCode               string  `json:"productCode"`
	ProductName               string  `json:"productName"`
	CurrentStock              int64   `json:"currentStock"`
	PredictedDaysUntilReorder float64 `json:"predictedDaysUntilReorder"`
	RecommendedQuantity       int64   `json:"recommendedQuantity"`
	OptimalStockLevel         int64   `json:"optimalStockLevel"`
	Confidence                float64 `json:"confidence"`
	Reasoning                 string  `json:"reasoning"`
}

// DemandForecast is the catalogue-wide demand forecast.
type DemandForecast struct {
	Forecasts []DemandItem `json:"forecasts"`
	Summary   string       `json:"summary"`
	Analysis  string       `json:"analysis"`
}

// DailyForecast is one day of a product forecast.
type DailyForecast struct {
	Day            int     `json:"day"`
	Date           string  `json:"date"`
	PredictedStock float64 `json:"predictedStock"`
	PredictedSales float64 `json:"predictedSales"`
}

// ProductForecast is the day-by-day forecast of a single product.
type ProductForecast struct {
	ProductID                  int64           `json:"productId"`
	ProductCode                string          `json:"productCode"`
	ProductName                string          `json:"productName"`
	CurrentStock               int64           `json:"currentStock"`
	AvgDailySales              float64         `json:"avgDailySales"`
	PredictedDaysUntilStockOut *float64        `json:"predictedDaysUntilStockOut,omitempty"`
	RecommendedReorderQuantity *int64          `json:"recommendedReorderQuantity,omitempty"`
	OptimalStockLevel          *int64          `json:"optimalStockLevel,omitempty"`
	Confidence                 float64         `json:"confidence"`
	DetailedAnalysis           string          `json:"detailedAnalysis"`
	Recommendations            string          `json:"recommendations"`
	DailyForecasts             []DailyForecast `json:"dailyForecasts"`
}

// ABCProduct is one product in an ABC class.
type ABCProduct struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Percentage float64         `json:"percentage"`
	Quantity   int64           `json:"quantity"`
}

// ABCAnalysis splits products by their share of revenue.
type ABCAnalysis struct {
	CategoryA       []ABCProduct `json:"categoryA"`
	CategoryB       []ABCProduct `json:"categoryB"`
	CategoryC       []ABCProduct `json:"categoryC"`
	Analysis        string       `json:"analysis"`
	Recommendations string       `json:"recommendations"`
}

// TrendPoint is one bucket of a sales trend.
type TrendPoint struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
	Growth  float64         `json:"growth"`
}

// SalesTrend is revenue over time with a short outlook.
type SalesTrend struct {
	Period          string       `json:"period"`
	TrendData       []TrendPoint `json:"trendData"`
	Trend           string       `json:"trend"`
	GrowthRate      float64      `json:"growthRate"`
	Analysis        string       `json:"analysis"`
	Forecast        string       `json:"forecast"`
	TopProducts     []string     `json:"topProducts"`
	Recommendations []string     `json:"recommendations"`
}

// RevenueAnalysis compares the window with the one before it.
type RevenueAnalysis struct {
	Trend           string          `json:"trend"`
	GrowthRate      float64         `json:"growthRate"`
	Reason          string          `json:"reason"`
	CurrentRevenue  decimal.Decimal `json:"currentRevenue"`
	PreviousRevenue decimal.Decimal `json:"previousRevenue"`
}

// ProductSales is a product's sales in the window.
type ProductSales struct {
	ProductID          int64           `json:"productId"`
	ProductCode        string          `json:"productCode"`
	ProductName        string          `json:"productName"`
	Revenue            decimal.Decimal `json:"revenue"`
	QuantitySold       int64           `json:"quantitySold"`
	Rank               int             `json:"rank,omitempty"`
	RevenueDecline     float64         `json:"revenueDecline,omitempty"`
	Reason             string          `json:"reason,omitempty"`
	Season             string          `json:"season,omitempty"`
	SeasonalMultiplier float64         `json:"seasonalMultiplier,omitempty"`
}

// HourlySales is revenue for one hour of the day.
type HourlySales struct {
	Hour       int             `json:"hour"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"orderCount"`
}

// BestSellingHours is the hourly breakdown and its peaks.
type BestSellingHours struct {
	HourlyData []HourlySales `json:"hourlyData"`
	PeakHours  string        `json:"peakHours"`
}

// SalesInsights is the sales analysis over a look-back window.
type SalesInsights struct {
	RevenueAnalysis   RevenueAnalysis  `json:"revenueAnalysis"`
	TopProducts       []ProductSales   `json:"topProducts"`
	DecliningProducts []ProductSales   `json:"decliningProducts"`
	BestSellingHours  BestSellingHours `json:"bestSellingHours"`
	SeasonalProducts  []ProductSales   `json:"seasonalProducts"`
	OverallAnalysis   string           `json:"overallAnalysis"`
}

// ProductTurnover is how fast one product's stock moves.
type ProductTurnover struct {
	ProductID    int64   `json:"productId"`
	ProductCode  string  `json:"productCode"`
	ProductName  string  `json:"productName"`
	TurnoverRate float64 `json:"turnoverRate"`
	DaysInStock  float64 `json:"daysInStock"`
	Efficiency   string  `json:"efficiency"`
}

// DeadStock is stock that has not sold for a long time.
type DeadStock struct {
	ProductID         int64           `json:"productId"`
	ProductCode       string          `json:"productCode"`
	ProductName       string          `json:"productName"`
	Quantity          int64           `json:"quantity"`
	DaysSinceLastSale int             `json:"daysSinceLastSale"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	Recommendation    string          `json:"recommendation"`
}

// Overstock is stock held above its optimal level.
type Overstock struct {
	ProductID      int64  `json:"productId"`
	ProductCode    string `json:"productCode"`
	ProductName    string `json:"productName"`
	CurrentStock   int64  `json:"currentStock"`
	OptimalStock   int64  `json:"optimalStock"`
	ExcessQuantity int64  `json:"excessQuantity"`
	Recommendation string `json:"recommendation"`
}

// InventoryTurnover is the turnover analysis over a period.
type InventoryTurnover struct {
	OverallTurnoverRate float64           `json:"overallTurnoverRate"`
	ProductTurnovers    []ProductTurnover `json:"productTurnovers"`
	DeadStocks          []DeadStock       `json:"deadStocks"`
	OverstockedItems    []Overstock       `json:"overstockedItems"`
	Analysis            string            `json:"analysis"`
	Recommendations     []string          `json:"recommendations"`
}

// StockLevel is the recommended band for one product.
type StockLevel struct {
	ProductID              int64  `json:"productId"`
	ProductCode            string `json:"productCode"`
	ProductName            string `json:"productName"`
	CurrentStock           int64  `json:"currentStock"`
	MinStock               int64  `json:"minStock"`
	MaxStock               int64  `json:"maxStock"`
	OptimalReorderQuantity int64  `json:"optimalReorderQuantity"`
	Reasoning              string `json:"reasoning"`
}

// StoreRecommendation suggests where a product should be held.
type StoreRecommendation struct {
	ProductID            int64  `json:"productId"`
	ProductCode          string `json:"productCode"`
	ProductName          string `json:"productName"`
	RecommendedStoreID   int64  `json:"recommendedStoreId"`
	RecommendedStoreName string `json:"recommendedStoreName"`
	Reasoning            string `json:"reasoning"`
}

// CategoryOptimization is the advice for one category.
type CategoryOptimization struct {
	CategoryName    string   `json:"categoryName"`
	Recommendations []string `json:"recommendations"`
	Analysis        string   `json:"analysis"`
}

// StockOptimization is the stock level and placement advice.
type StockOptimization struct {
	Optimizations            []StockLevel           `json:"optimizations"`
	WarehouseRecommendations []StoreRecommendation  `json:"warehouseRecommendations"`
	CategoryOptimizations    []CategoryOptimization `json:"categoryOptimizations"`
	Summary                  string                 `json:"summary"`
}

// ComboItem is a member of a suggested bundle.
type ComboItem struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// Combo is one suggested bundle of products often sold together.
type Combo struct {
	Name           string          `json:"name"`
	Items          []ComboItem     `json:"items"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	ComboPrice     decimal.Decimal `json:"comboPrice"`
	Discount       float64         `json:"discount"`
	Reason         string          `json:"reason"`
	TargetCustomer string          `json:"targetCustomer"`
}

// ComboSuggestions are the bundle ideas mined from order history.
type ComboSuggestions struct {
	Combos   []Combo `json:"combos"`
	Analysis string  `json:"analysis"`
}

// NormalizeTrendPeriod upper-cases period and defaults it to weekly.
func NormalizeTrendPeriod(period string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(period))
	if p == "" {
		return TrendWeekly, nil
	}
	if !slices.Contains(TrendPeriods, p) {
		return "", fmt.Errorf("%w: period %q is not one of %s", ErrInvalidRequest, period, strings.Join(TrendPeriods, ", "))
	}
	return p, nil
}

func checkDays(name string, days int) error {
	if days < 1 || days > MaxAnalysisDays {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalidRequest, name, MaxAnalysisDays, days)
	}
	return nil
}

func (s *Service) getPanel(ctx context.Context, name, path string, query url.Values, out any) error {
	if err := s.client.Get(ctx, aiPath+path, query, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// DemandForecast returns reorder advice for every product with sales history.
func (s *Service) DemandForecast(ctx context.Context) (DemandForecast, error) {
	var out DemandForecast
	err := s.getPanel(ctx, "demand forecast", "/reports/demand-forecast", nil, &out)
	return out, err
}

// ProductDemandForecast forecasts one product day by day over days.
func (s *Service) ProductDemandForecast(ctx context.Context, productID int64, days int) (ProductForecast, error) {
	var out ProductForecast
	if productID <= 0 {
		return out, fmt.Errorf("%w: product id must be positive", ErrInvalidRequest)
	}
	if err := checkDays("days", days); err != nil {
		return out, err
	}
	path := "/reports/demand-forecast/product/" + strconv.FormatInt(productID, 10)
	err := s.getPanel(ctx, "product demand forecast", path, url.Values{"days": {strconv.Itoa(days)}}, &out)
	return out, err
}

// ABCAnalysis classifies products by revenue share.
func (s *Service) ABCAnalysis(ctx context.Context) (ABCAnalysis, error) {
	var out ABCAnalysis
	err := s.getPanel(ctx, "abc analysis", "/abc-analysis", nil, &out)
	return out, err
}

// SalesTrend returns revenue per period bucket. An empty period means weekly.
func (s *Service) SalesTrend(ctx context.Context, period string) (SalesTrend, error) {
	var out SalesTrend
	p, err := NormalizeTrendPeriod(period)
	if err != nil {
		return out, err
	}
	err = s.getPanel(ctx, "sales trend", "/sales-trend", url.Values{"period": {p}}, &out)
	if out.Period == "" {
		out.Period = p
	}
	return out, err
}

// SalesInsights analyses sales over the last days.
func (s *Service) SalesInsights(ctx context.Context, days int) (SalesInsights, error) {
	var out SalesInsights
	if err := checkDays("days", days); err != nil {
		return out, err
	}
	err := s.getPanel(ctx, "sales insights", "/reports/sales-insights", url.Values{"days": {strconv.Itoa(days)}}, &out)
	return out, err
}

// InventoryTurnover analyses stock movement over the last periodDays.
func (s *Service) InventoryTurnover(ctx context.Context, periodDays int) (InventoryTurnover, error) {
	var out InventoryTurnover
	if err := checkDays("period", periodDays); err != nil {
		return out, err
	}
	query := url.Values{"periodDays": {strconv.Itoa(periodDays)}}
	err := s.getPanel(ctx, "inventory turnover", "/reports/inventory-turnover", query, &out)
	return out, err
}

// StockOptimization returns stock bands and placement advice.
func (s *Service) StockOptimization(ctx context.Context) (StockOptimization, error) {
	var out StockOptimization
	err := s.getPanel(ctx, "stock optimization", "/reports/stock-optimization", nil, &out)
	return out, err
}

// ComboSuggestions returns product bundles mined from order history.
func (s *Service) ComboSuggestions(ctx context.Context) (ComboSuggestions, error) {
	var out ComboSuggestions
	err := s.getPanel(ctx, "combo suggestions", "/combo-suggestions", nil, &out)
	return out, err
}
