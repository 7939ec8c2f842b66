// Package insights calls the backend's AI endpoints and turns their answers into
// Markdown panels for the terminal.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stockdesk/stockdesk/internal/api"
	"github.com/stockdesk/stockdesk/internal/logging"
)

const aiPath = "/api/ai"

// ErrEmptyMessage is returned when a chat message is blank.
var ErrEmptyMessage = errors.New("chat message is empty")

// ErrInvalidRequest is returned for a report or forecast request the backend would refuse.
var ErrInvalidRequest = errors.New("invalid insights request")

// Service wraps the /api/ai endpoints.
type Service struct {
	client *api.Client
}

// NewService binds the AI endpoints to a client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// DashboardAlerts returns the dashboard alert panel. A backend without the
// endpoint yields an empty response instead of an error.
func (s *Service) DashboardAlerts(ctx context.Context) (DashboardAlerts, error) {
	var out DashboardAlerts
	err := s.client.Get(ctx, aiPath+"/dashboard-alerts", nil, &out)
	if errors.Is(err, api.ErrNotFound) {
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "insights").
			Str("operation", "dashboard_alerts").
			Msg("dashboard alerts endpoint not available, returning empty panel")
		return DashboardAlerts{Alerts: []DashboardAlert{}}, nil
	}
	if err != nil {
		return out, fmt.Errorf("dashboard alerts: %w", err)
	}
	if out.Alerts == nil {
		out.Alerts = []DashboardAlert{}
	}
	return out, nil
}

// InventoryAlerts returns stock-level alerts with per-product recommendations.
func (s *Service) InventoryAlerts(ctx context.Context) (InventoryAlerts, error) {
	var out InventoryAlerts
	if err := s.client.Get(ctx, aiPath+"/reports/inventory-alerts", nil, &out); err != nil {
		return out, fmt.Errorf("inventory alerts: %w", err)
	}
	return out, nil
}

// GenerateReport asks the backend to write a report for the requested scope.
func (s *Service) GenerateReport(ctx context.Context, req ReportRequest) (Report, error) {
	var out Report
	req = req.normalize()
	if err := req.Validate(); err != nil {
		return out, err
	}
	if err := s.client.Post(ctx, aiPath+"/generate-report", req, &out); err != nil {
		return out, fmt.Errorf("generate %s report: %w", req.ReportType, err)
	}
	return out, nil
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat sends one message to the assistant and returns its reply.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := s.client.Post(ctx, aiPath+"/chat", chatRequest{Message: message}, &out); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return out.Message, nil
}

type forecastRequest struct {
	Items []ForecastItem `json:"items"`
}

// Forecast asks for a restocking recommendation over items.
func (s *Service) Forecast(ctx context.Context, items []ForecastItem) (Forecast, error) {
	var out Forecast
	if len(items) == 0 {
		return out, fmt.Errorf("%w: forecast needs at least one item", ErrInvalidRequest)
	}
	if err := s.client.Post(ctx, aiPath+"/inventory-forecast", forecastRequest{Items: items}, &out); err != nil {
		return out, fmt.Errorf("inventory forecast: %w", err)
	}
	out.Items = items
	return out, nil
}
