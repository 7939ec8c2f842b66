package insights

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Alert severities used by the dashboard panel.
const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"
	SeverityInfo     = "INFO"
	SeveritySuccess  = "SUCCESS"
)

// DashboardAlert is one item of the dashboard alert panel.
type DashboardAlert struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

// DashboardAlerts is the dashboard alert panel.
type DashboardAlerts struct {
	Alerts  []DashboardAlert `json:"alerts"`
	Summary string           `json:"summary"`
}

// InventoryAlert flags one product whose stock needs attention.
type InventoryAlert struct {
	Type                   string   `json:"type"`
	Severity               string   `json:"severity"`
	ProductID              int64    `json:"productId"`
	ProductCode            string   `json:"productCode"`
	ProductName            string   `json:"productName"`
	CurrentStock           int64    `json:"currentStock"`
	PredictedDaysRemaining *float64 `json:"predictedDaysRemaining,omitempty"`
	AvgDailySales          *float64 `json:"avgDailySales,omitempty"`
	Message                string   `json:"message"`
	Recommendation         string   `json:"recommendation"`
}

// InventoryAlerts is the smart inventory alert report.
type InventoryAlerts struct {
	Alerts  []InventoryAlert `json:"alerts"`
	Summary string           `json:"summary"`
}

// Report types and periods accepted by the report generator.
const (
	ReportInventory    = "INVENTORY"
	ReportSales        = "SALES"
	ReportImportExport = "IMPORT_EXPORT"
	ReportAll          = "ALL"

	PeriodDaily   = "DAILY"
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
)

//nolint:gochecknoglobals // Static lookup tables.
var (
	ReportTypes   = []string{ReportInventory, ReportSales, ReportImportExport, ReportAll}
	ReportPeriods = []string{PeriodDaily, PeriodWeekly, PeriodMonthly}
)

const dateLayout = "2006-01-02"

// ReportRequest selects what the generated report covers.
type ReportRequest struct {
	ReportType string `json:"reportType"`
	Period     string `json:"period"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	Format     string `json:"format,omitempty"`
}

func (r ReportRequest) normalize() ReportRequest {
	r.ReportType = strings.ToUpper(strings.TrimSpace(r.ReportType))
	r.Period = strings.ToUpper(strings.TrimSpace(r.Period))
	if r.ReportType == "" {
		r.ReportType = ReportAll
	}
	if r.Period == "" {
		r.Period = PeriodWeekly
	}
	if r.Format == "" {
		r.Format = "HTML"
	}
	return r
}

// Validate checks the report type, period and dates.
func (r ReportRequest) Validate() error {
	r = r.normalize()
	if !slices.Contains(ReportTypes, r.ReportType) {
		return fmt.Errorf("%w: report type %q (want %s)", ErrInvalidRequest, r.ReportType, strings.Join(ReportTypes, ", "))
	}
	if !slices.Contains(ReportPeriods, r.Period) {
		return fmt.Errorf("%w: period %q (want %s)", ErrInvalidRequest, r.Period, strings.Join(ReportPeriods, ", "))
	}
	var start, end time.Time
	var err error
	if r.StartDate != "" {
		if start, err = time.Parse(dateLayout, r.StartDate); err != nil {
			return fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidRequest, r.StartDate)
		}
	}
	if r.EndDate != "" {
		if end, err = time.Parse(dateLayout, r.EndDate); err != nil {
			return fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidRequest, r.EndDate)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidRequest)
	}
	return nil
}

// Report is a generated report. HTMLContent is the backend's rendered body.
type Report struct {
	ReportType      string `json:"reportType"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	HTMLContent     string `json:"htmlContent"`
	Highlights      string `json:"highlights"`
	Recommendations string `json:"recommendations"`
}

// ForecastItem is one product sent to the forecaster.
type ForecastItem struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Quantity      int64    `json:"quantity"`
	AvgDailySales *float64 `json:"avgDailySales,omitempty"`
}

// Forecast is the restocking recommendation for a set of items.
type Forecast struct {
	Recommendation string         `json:"recommendation"`
	Items          []ForecastItem `json:"-"`
}
