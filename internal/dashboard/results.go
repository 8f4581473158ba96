package dashboard

import (
	"rxcast/internal/domain"
	"rxcast/internal/gateway"
)

// InventoryResult is the inventory table plus where its forecast came from.
// Err is set when the forecast fell back or the repository failed.
type InventoryResult struct {
	Items  []domain.InventoryItem
	Source gateway.Source
	Status string
	Err    error
}

// Strict returns the items, or the underlying error for fail-fast callers.
func (r InventoryResult) Strict() ([]domain.InventoryItem, error) {
	return r.Items, r.Err
}

// ForecastResult is the banded forecast for one NDC.
type ForecastResult struct {
	Points    []domain.ForecastPoint
	Supported bool
	Source    gateway.Source
	Status    string
	Err       error
}

// Strict returns the points, or the upstream error for fail-fast callers.
func (r ForecastResult) Strict() ([]domain.ForecastPoint, error) {
	return r.Points, r.Err
}

// Summary describes the current forecast without its series.
type Summary struct {
	Status                 string         `json:"status"`
	Days                   int            `json:"days"`
	TotalPredicted         float64        `json:"total_predicted"`
	Confidence             *float64       `json:"confidence,omitempty"`
	FDAStatus              string         `json:"fda_status,omitempty"`
	UpstreamSuggestedPOQty *float64       `json:"upstream_suggested_po_qty,omitempty"`
	UpstreamAtRisk         *bool          `json:"upstream_at_risk,omitempty"`
	Source                 gateway.Source `json:"source"`
	Err                    error          `json:"-"`
}

// Strict returns the summary, or the upstream error for fail-fast callers.
func (s Summary) Strict() (Summary, error) {
	return s, s.Err
}
