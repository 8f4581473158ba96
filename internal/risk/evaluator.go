// Package risk scores projected stock shortfall and suggests reorder quantities.
package risk

import "math"

// DefaultSafetyBuffer is the unit buffer used both as the at-risk threshold
// and as the extra quantity added to a suggested order.
const DefaultSafetyBuffer = 20

// Assessment is the outcome of evaluating one drug.
type Assessment struct {
	TotalPredicted float64 // sum of predicted demand over the horizon
	SuggestedPOQty int     // max(0, total - onHand + buffer), whole units
	AtRisk         bool    // onHand - total <= buffer
}

// Evaluator computes risk assessments. Stateless and safe for concurrent use.
type Evaluator struct {
	safetyBuffer float64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithSafetyBuffer overrides DefaultSafetyBuffer.
func WithSafetyBuffer(units int) Option {
	return func(e *Evaluator) {
		e.safetyBuffer = float64(units)
	}
}

// NewEvaluator creates a new risk evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{safetyBuffer: DefaultSafetyBuffer}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SafetyBuffer returns the configured buffer in units.
func (e *Evaluator) SafetyBuffer() int {
	return int(e.safetyBuffer)
}

// Evaluate produces an Assessment from on-hand stock and the per-day demand series.
// A nil series sums to 0. Total on all inputs, including negative values.
func (e *Evaluator) Evaluate(onHand float64, predictedDemand []float64) Assessment {
	total := Sum(predictedDemand)

	shortfall := total - onHand + e.safetyBuffer
	suggested := 0
	switch {
	case shortfall >= float64(math.MaxInt):
		suggested = math.MaxInt
	case shortfall > 0:
		suggested = int(math.Ceil(shortfall))
	}

	return Assessment{
		TotalPredicted: total,
		SuggestedPOQty: suggested,
		AtRisk:         onHand-total <= e.safetyBuffer,
	}
}

// Sum adds the finite values of a demand series. The total saturates at
// ±math.MaxFloat64 instead of overflowing to infinity.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total = saturate(total + v)
	}
	return total
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
