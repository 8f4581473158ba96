// Package forecast turns a median demand series into charting bands.
package forecast

import (
	"math"

	"rxcast/internal/domain"
)

// Fixed proportional spread around the median.
const (
	LowFactor  = 0.75
	HighFactor = 1.25
)

// SynthesizeBands builds one ForecastPoint per day from aligned dates and
// median demand. Output length is min(len(dates), len(demand)); order follows dates.
//
// For each day:
//   - p50 = demand[i] (NaN/Inf treated as 0)
//   - p05 = round(p50 * LowFactor)
//   - p95 = round(p50 * HighFactor)
//
// Dates are copied verbatim. Negative demand is not clamped, so p05 > p95 is possible.
// A p95 beyond the float64 range saturates at ±math.MaxFloat64.
func SynthesizeBands(dates []string, demand []float64) []domain.ForecastPoint {
	n := len(dates)
	if len(demand) < n {
		n = len(demand)
	}

	points := make([]domain.ForecastPoint, 0, n)
	for i := 0; i < n; i++ {
		p50 := finiteOrZero(demand[i])
		points = append(points, domain.ForecastPoint{
			Date: dates[i],
			P05:  Round(p50 * LowFactor),
			P50:  p50,
			P95:  saturate(Round(p50 * HighFactor)),
		})
	}

	return points
}

// Round rounds half up (toward +Inf), so Round(-2.5) == -2.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func saturate(x float64) float64 {
	switch {
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case math.IsInf(x, -1):
		return -math.MaxFloat64
	}
	return x
}
