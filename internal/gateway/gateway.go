// Package gateway fetches the upstream demand forecast once per process and
// degrades to a neutral fallback instead of failing callers.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"rxcast/internal/domain"
	"rxcast/internal/logging"
	"rxcast/internal/observability"
)

// FallbackStatus is the status reported when the upstream could not be read.
const FallbackStatus = "Error: API connection failed"

// Source tells where a forecast came from.
type Source string

const (
	SourceUpstream Source = "upstream" // fetched on this call
	SourceCache    Source = "cache"    // served from the slot
	SourceFallback Source = "fallback" // upstream failed, neutral default returned
)

// Result is the outcome of FetchForecastData. Err is set only for SourceFallback.
type Result struct {
	Response domain.RawForecastResponse
	Source   Source
	Err      error
}

// Degraded reports whether the response is the fallback.
func (r Result) Degraded() bool {
	return r.Source == SourceFallback
}

// Strict returns the response, or the upstream error for callers that want fail-fast.
func (r Result) Strict() (domain.RawForecastResponse, error) {
	if r.Degraded() {
		err := r.Err
		if err == nil {
			err = errors.New(FallbackStatus)
		}
		return r.Response, err
	}
	return r.Response, nil
}

// Fallback returns the neutral response used when the upstream is unavailable.
func Fallback() domain.RawForecastResponse {
	return domain.RawForecastResponse{
		Status:          FallbackStatus,
		ForecastDates:   []string{},
		PredictedDemand: []float64{},
	}
}

// Gateway owns the forecast client and its cache slot.
type Gateway struct {
	client ForecastClient
	slot   *Slot
	logger logrus.FieldLogger
	now    func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithSlot injects the cache slot. Defaults to a single-flight slot.
func WithSlot(slot *Slot) Option {
	return func(g *Gateway) {
		g.slot = slot
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// New creates a gateway around client.
func New(client ForecastClient, opts ...Option) *Gateway {
	g := &Gateway{
		client: client,
		slot:   NewSlot(true),
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchForecastData returns the cached forecast, fetching it on first use.
// It never returns an error; failures yield Fallback() with Source=fallback
// and are not cached, so the next call tries the upstream again.
func (g *Gateway) FetchForecastData(ctx context.Context) Result {
	resp, cached, err := g.slot.GetOrFetch(ctx, g.fetch)
	if err != nil {
		observability.RecordFallback()
		g.logger.WithError(err).Warn("forecast upstream unavailable, using fallback")
		return Result{Response: Fallback(), Source: SourceFallback, Err: err}
	}

	if cached {
		observability.RecordCacheHit()
		g.logger.Debug("forecast served from cache")
		return Result{Response: resp, Source: SourceCache}
	}

	return Result{Response: resp, Source: SourceUpstream}
}

// Reset drops the cached forecast so the next call refetches.
func (g *Gateway) Reset() {
	g.slot.Reset()
}

func (g *Gateway) fetch(ctx context.Context) (domain.RawForecastResponse, error) {
	start := g.now()
	resp, err := g.client.Predict(ctx)
	elapsed := g.now().Sub(start).Seconds()

	if err != nil {
		observability.RecordUpstreamFetch("error", elapsed, 0)
		return domain.RawForecastResponse{}, err
	}

	observability.RecordUpstreamFetch("success", elapsed, g.now().Unix())
	g.logger.WithFields(logrus.Fields{
		"status": resp.Status,
		"days":   len(resp.ForecastDates),
	}).Info("forecast fetched from upstream")

	return resp, nil
}
