package gateway

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"rxcast/internal/domain"
)

const flightKey = "predict"

// FetchFunc produces a fresh forecast.
type FetchFunc func(ctx context.Context) (domain.RawForecastResponse, error)

// Slot is a single-value cache for the forecast response with no expiry.
// Only successful fetches populate it.
type Slot struct {
	mu    sync.RWMutex
	value *domain.RawForecastResponse

	singleFlight bool
	group        singleflight.Group
}

// NewSlot creates an empty slot. With singleFlight, concurrent misses share one fetch;
// without it, each concurrent miss fetches independently.
func NewSlot(singleFlight bool) *Slot {
	return &Slot{singleFlight: singleFlight}
}

// Get returns a copy of the cached response, if any.
func (s *Slot) Get() (domain.RawForecastResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.value == nil {
		return domain.RawForecastResponse{}, false
	}
	return s.value.Clone(), true
}

// GetOrFetch returns the cached response or calls fetch and caches its result on success.
// cached reports whether the value came from the slot.
func (s *Slot) GetOrFetch(ctx context.Context, fetch FetchFunc) (resp domain.RawForecastResponse, cached bool, err error) {
	if v, ok := s.Get(); ok {
		return v, true, nil
	}

	if !s.singleFlight {
		v, err := s.fetchAndStore(ctx, fetch)
		return v, false, err
	}

	// The shared fetch must outlive the caller that started it; the
	// client timeout still bounds it.
	flightCtx := context.WithoutCancel(ctx)
	out, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		// A caller may have filled the slot between our miss and the flight start.
		if v, ok := s.Get(); ok {
			return v, nil
		}
		return s.fetchAndStore(flightCtx, fetch)
	})
	if err != nil {
		return domain.RawForecastResponse{}, false, err
	}
	return out.(domain.RawForecastResponse).Clone(), false, nil
}

// Reset empties the slot.
func (s *Slot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = nil
}

func (s *Slot) fetchAndStore(ctx context.Context, fetch FetchFunc) (domain.RawForecastResponse, error) {
	v, err := fetch(ctx)
	if err != nil {
		return domain.RawForecastResponse{}, err
	}

	stored := v.Clone()
	s.mu.Lock()
	s.value = &stored
	s.mu.Unlock()

	return v, nil
}
