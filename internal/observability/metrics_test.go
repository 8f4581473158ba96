package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordUpstreamFetch(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.UpstreamFetches.WithLabelValues("success"))

	RecordUpstreamFetch("success", 0.05, 1758448800)
	RecordUpstreamFetch("error", 0.01, 0)

	if got := testutil.ToFloat64(DefaultMetrics.UpstreamFetches.WithLabelValues("success")) - before; got != 1 {
		t.Errorf("success fetches delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(DefaultMetrics.LastUpstreamFetch); got != 1758448800 {
		t.Errorf("last fetch = %v, want 1758448800", got)
	}
}

func TestRecordRiskEvaluation(t *testing.T) {
	atRisk := testutil.ToFloat64(DefaultMetrics.RiskEvaluations.WithLabelValues("true"))
	safe := testutil.ToFloat64(DefaultMetrics.RiskEvaluations.WithLabelValues("false"))

	RecordRiskEvaluation(true)
	RecordRiskEvaluation(false)
	RecordRiskEvaluation(false)

	if got := testutil.ToFloat64(DefaultMetrics.RiskEvaluations.WithLabelValues("true")) - atRisk; got != 1 {
		t.Errorf("at-risk delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(DefaultMetrics.RiskEvaluations.WithLabelValues("false")) - safe; got != 2 {
		t.Errorf("safe delta = %v, want 2", got)
	}
}

func TestStreamClientConnected(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.StreamClients)

	StreamClientConnected(1)
	StreamClientConnected(1)
	StreamClientConnected(-1)

	if got := testutil.ToFloat64(DefaultMetrics.StreamClients) - before; got != 1 {
		t.Errorf("stream clients delta = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	RecordCacheHit()
	RecordFallback()
	RecordPurchaseOrderAck()
	RecordForecastRequest(true, 7)
	RecordHTTPRequest("/api/v1/inventory", "200", 0.002)
	RecordRepositoryError("list")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{
		"rxcast_gateway_cache_hits_total",
		"rxcast_gateway_fallbacks_total",
		"rxcast_orders_acknowledgments_total",
		"rxcast_pipeline_forecast_points",
		"rxcast_api_requests_total",
		"rxcast_storage_errors_total",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
