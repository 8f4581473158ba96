// Package dashboard assembles the query-facing views of the inventory dashboard:
// the inventory table, per-drug forecast bands, the forecast summary and the
// purchase-order stub.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rxcast/internal/domain"
	"rxcast/internal/forecast"
	"rxcast/internal/gateway"
	"rxcast/internal/idhash"
	"rxcast/internal/logging"
	"rxcast/internal/observability"
	"rxcast/internal/risk"
	"rxcast/internal/storage"
)

// DefaultNDCPrefix selects the drugs the upstream forecast applies to.
const DefaultNDCPrefix = "12345"

// InventoryUnavailableStatus is reported when the repository cannot be read.
const InventoryUnavailableStatus = "Error: inventory unavailable"

// ForecastSource supplies the shared demand forecast.
type ForecastSource interface {
	FetchForecastData(ctx context.Context) gateway.Result
}

// Service answers dashboard queries. It is safe for concurrent use.
type Service struct {
	repo        storage.InventoryRepository
	forecasts   ForecastSource
	evaluator   *risk.Evaluator
	ndcPrefix   string
	orderWindow time.Duration
	logger      logrus.FieldLogger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEvaluator sets the risk evaluator. Defaults to the 20-unit safety buffer.
func WithEvaluator(e *risk.Evaluator) Option {
	return func(s *Service) {
		s.evaluator = e
	}
}

// WithNDCPrefix sets which NDCs the upstream forecast covers.
// An empty prefix matches every NDC.
func WithNDCPrefix(prefix string) Option {
	return func(s *Service) {
		s.ndcPrefix = prefix
	}
}

// WithOrderWindow sets the window over which purchase-order keys are stable.
func WithOrderWindow(d time.Duration) Option {
	return func(s *Service) {
		s.orderWindow = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a dashboard service over repo and forecasts.
func NewService(repo storage.InventoryRepository, forecasts ForecastSource, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		forecasts:   forecasts,
		evaluator:   risk.NewEvaluator(),
		ndcPrefix:   DefaultNDCPrefix,
		orderWindow: idhash.DefaultOrderWindow,
		logger:      logging.Discard(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Supported reports whether the upstream forecast applies to ndc.
func (s *Service) Supported(ndc string) bool {
	return strings.HasPrefix(ndc, s.ndcPrefix)
}

// ListInventory returns every tracked drug with its risk assessment.
// The gateway is consulted once per call. Drugs outside the forecast prefix
// are evaluated against an empty demand series.
func (s *Service) ListInventory(ctx context.Context) InventoryResult {
	drugs, err := s.repo.List(ctx)
	if err != nil {
		observability.RecordRepositoryError("list")
		s.logger.WithError(err).Error("list inventory failed")
		return InventoryResult{
			Items:  []domain.InventoryItem{},
			Status: InventoryUnavailableStatus,
			Err:    fmt.Errorf("list inventory: %w", err),
		}
	}

	fc := s.forecasts.FetchForecastData(ctx)
	demand := fc.Response.PredictedDemand

	items := make([]domain.InventoryItem, 0, len(drugs))
	for _, d := range drugs {
		var series []float64
		if s.Supported(d.NDC) {
			series = demand
		}

		a := s.evaluator.Evaluate(float64(d.OnHand), series)
		observability.RecordRiskEvaluation(a.AtRisk)

		items = append(items, domain.InventoryItem{
			NDC:            d.NDC,
			DrugName:       d.DrugName,
			OnHand:         d.OnHand,
			OnOrder:        d.OnOrder,
			LeadTimeDays:   d.LeadTimeDays,
			Pred14P50:      a.TotalPredicted,
			Risk:           a.AtRisk,
			SuggestedPOQty: a.SuggestedPOQty,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"items":  len(items),
		"source": fc.Source,
	}).Debug("inventory listed")

	return InventoryResult{
		Items:  items,
		Source: fc.Source,
		Status: fc.Response.Status,
		Err:    fc.Err,
	}
}

// ListForecast returns the banded forecast for ndc. Unsupported NDCs yield an
// empty result without touching the gateway.
func (s *Service) ListForecast(ctx context.Context, ndc string) ForecastResult {
	if !s.Supported(ndc) {
		observability.RecordForecastRequest(false, 0)
		return ForecastResult{Points: []domain.ForecastPoint{}}
	}

	fc := s.forecasts.FetchForecastData(ctx)
	points := forecast.SynthesizeBands(fc.Response.ForecastDates, fc.Response.PredictedDemand)
	observability.RecordForecastRequest(true, len(points))

	return ForecastResult{
		Points:    points,
		Supported: true,
		Source:    fc.Source,
		Status:    fc.Response.Status,
		Err:       fc.Err,
	}
}

// ForecastSummary reports the status and metadata of the current forecast.
func (s *Service) ForecastSummary(ctx context.Context) Summary {
	fc := s.forecasts.FetchForecastData(ctx)
	resp := fc.Response

	return Summary{
		Status:                 resp.Status,
		Days:                   len(resp.ForecastDates),
		TotalPredicted:         risk.Sum(resp.PredictedDemand),
		Confidence:             resp.Confidence,
		FDAStatus:              resp.FDAStatus,
		UpstreamSuggestedPOQty: resp.SuggestedPOQty,
		UpstreamAtRisk:         resp.AtRisk,
		Source:                 fc.Source,
		Err:                    fc.Err,
	}
}

// SubmitPurchaseOrder acknowledges a purchase order without placing it.
// It never fails and accepts any ndc and qty; input checks belong to the caller.
func (s *Service) SubmitPurchaseOrder(_ context.Context, ndc string, qty int) domain.PurchaseOrderAck {
	now := s.now().UTC()
	ack := domain.PurchaseOrderAck{
		ID:             uuid.NewString(),
		Status:         domain.AckStatusMock,
		NDC:            ndc,
		Qty:            qty,
		IdempotencyKey: idhash.ComputeOrderKey(ndc, qty, idhash.WindowStart(now, s.orderWindow)),
		ReceivedAt:     now,
	}

	observability.RecordPurchaseOrderAck()
	s.logger.WithFields(logrus.Fields{
		"ndc":             ndc,
		"qty":             qty,
		"idempotency_key": ack.IdempotencyKey,
	}).Info("purchase order acknowledged")

	return ack
}
