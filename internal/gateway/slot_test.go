package gateway

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcast/internal/domain"
)

func TestSlot_GetOrFetch_CachesSuccess(t *testing.T) {
	slot := NewSlot(true)
	var calls atomic.Int32
	fetch := func(context.Context) (domain.RawForecastResponse, error) {
		calls.Add(1)
		return domain.RawForecastResponse{Status: "ok", PredictedDemand: []float64{1}}, nil
	}

	first, cached, err := slot.GetOrFetch(context.Background(), fetch)
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := slot.GetOrFetch(context.Background(), fetch)
	require.NoError(t, err)
	assert.True(t, cached)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSlot_GetOrFetch_DoesNotCacheFailure(t *testing.T) {
	slot := NewSlot(true)
	var calls atomic.Int32
	fetch := func(context.Context) (domain.RawForecastResponse, error) {
		calls.Add(1)
		return domain.RawForecastResponse{}, errors.New("down")
	}

	_, _, err := slot.GetOrFetch(context.Background(), fetch)
	require.Error(t, err)
	_, _, err = slot.GetOrFetch(context.Background(), fetch)
	require.Error(t, err)

	_, ok := slot.Get()
	assert.False(t, ok)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSlot_SingleFlight_FetchIgnoresCallerCancel(t *testing.T) {
	slot := NewSlot(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetch := func(ctx context.Context) (domain.RawForecastResponse, error) {
		if err := ctx.Err(); err != nil {
			return domain.RawForecastResponse{}, err
		}
		return domain.RawForecastResponse{Status: "ok"}, nil
	}

	got, cached, err := slot.GetOrFetch(ctx, fetch)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "ok", got.Status)

	_, ok := slot.Get()
	assert.True(t, ok)
}

func TestSlot_Get_ReturnsCopy(t *testing.T) {
	slot := NewSlot(false)
	_, _, err := slot.GetOrFetch(context.Background(), func(context.Context) (domain.RawForecastResponse, error) {
		return domain.RawForecastResponse{PredictedDemand: []float64{5, 6}}, nil
	})
	require.NoError(t, err)

	v, ok := slot.Get()
	require.True(t, ok)
	v.PredictedDemand[0] = 999

	again, _ := slot.Get()
	assert.Equal(t, 5.0, again.PredictedDemand[0])
}

func TestSlot_Reset(t *testing.T) {
	slot := NewSlot(true)
	var calls atomic.Int32
	fetch := func(context.Context) (domain.RawForecastResponse, error) {
		calls.Add(1)
		return domain.RawForecastResponse{Status: "ok"}, nil
	}

	_, _, _ = slot.GetOrFetch(context.Background(), fetch)
	slot.Reset()
	_, cached, _ := slot.GetOrFetch(context.Background(), fetch)

	assert.False(t, cached)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSlot_SingleFlight_ConcurrentMissesShareFetch(t *testing.T) {
	slot := NewSlot(true)
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (domain.RawForecastResponse, error) {
		calls.Add(1)
		<-release
		return domain.RawForecastResponse{Status: "ok"}, nil
	}

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			_, _, err := slot.GetOrFetch(context.Background(), fetch)
			assert.NoError(t, err)
		}()
	}

	started.Wait()
	// Give every goroutine time to join the in-flight call before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestSlot_WithoutSingleFlight_ConcurrentMissesEachFetch(t *testing.T) {
	slot := NewSlot(false)
	var calls atomic.Int32
	var inFlight sync.WaitGroup
	inFlight.Add(2)
	fetch := func(context.Context) (domain.RawForecastResponse, error) {
		calls.Add(1)
		inFlight.Done()
		inFlight.Wait() // both callers are inside fetch before either stores
		return domain.RawForecastResponse{Status: "ok"}, nil
	}

	var done sync.WaitGroup
	done.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer done.Done()
			_, _, _ = slot.GetOrFetch(context.Background(), fetch)
		}()
	}
	done.Wait()

	assert.Equal(t, int32(2), calls.Load())
}
