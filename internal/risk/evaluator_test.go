package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_ShortfallAtRisk(t *testing.T) {
	evaluator := NewEvaluator()

	got := evaluator.Evaluate(50, []float64{10, 12, 14})

	assert.Equal(t, 36.0, got.TotalPredicted)
	assert.Equal(t, 6, got.SuggestedPOQty)
	assert.True(t, got.AtRisk)
}

func TestEvaluate_NoDemandWellStocked(t *testing.T) {
	evaluator := NewEvaluator()

	got := evaluator.Evaluate(200, []float64{})

	assert.Equal(t, 0.0, got.TotalPredicted)
	assert.Equal(t, 0, got.SuggestedPOQty)
	assert.False(t, got.AtRisk)
}

func TestEvaluate_NilDemand(t *testing.T) {
	got := NewEvaluator().Evaluate(10, nil)

	assert.Equal(t, 0.0, got.TotalPredicted)
	assert.Equal(t, 10, got.SuggestedPOQty)
	assert.True(t, got.AtRisk)
}

func TestEvaluate_Table(t *testing.T) {
	tests := []struct {
		name          string
		onHand        float64
		demand        []float64
		wantTotal     float64
		wantSuggested int
		wantAtRisk    bool
	}{
		{"threshold exactly at buffer", 56, []float64{36}, 36, 0, true},
		{"one unit above buffer", 57, []float64{36}, 36, 0, false},
		{"empty shelf no demand", 0, nil, 0, 20, true},
		{"placeholder week", 50, []float64{150, 165, 180, 170, 160, 140, 120}, 1085, 1055, true},
		{"negative demand", 30, []float64{-5, -5}, -10, 0, false},
		{"negative on hand", -4, []float64{1}, 1, 25, true},
		{"fractional demand rounds up", 10, []float64{0.5, 0.25}, 0.75, 11, true},
	}

	evaluator := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluator.Evaluate(tt.onHand, tt.demand)
			assert.InDelta(t, tt.wantTotal, got.TotalPredicted, 1e-9)
			assert.Equal(t, tt.wantSuggested, got.SuggestedPOQty)
			assert.Equal(t, tt.wantAtRisk, got.AtRisk)
		})
	}
}

func TestEvaluate_FallbackShape(t *testing.T) {
	// With no forecast the suggestion is the buffer minus stock.
	evaluator := NewEvaluator()
	for _, onHand := range []int{0, 5, 20, 21, 50} {
		got := evaluator.Evaluate(float64(onHand), nil)

		want := 20 - onHand
		if want < 0 {
			want = 0
		}
		if got.SuggestedPOQty != want {
			t.Errorf("onHand=%d: suggested=%d, want %d", onHand, got.SuggestedPOQty, want)
		}
		if got.AtRisk != (onHand <= 20) {
			t.Errorf("onHand=%d: atRisk=%v", onHand, got.AtRisk)
		}
	}
}

func TestEvaluate_CustomBuffer(t *testing.T) {
	evaluator := NewEvaluator(WithSafetyBuffer(5))

	got := evaluator.Evaluate(50, []float64{10, 12, 14})

	assert.Equal(t, 5, evaluator.SafetyBuffer())
	assert.Equal(t, 0, got.SuggestedPOQty)
	assert.False(t, got.AtRisk)
}

func TestSum_SkipsNonFinite(t *testing.T) {
	assert.Equal(t, 3.0, Sum([]float64{1, math.NaN(), 2, math.Inf(-1)}))
	assert.Equal(t, 0.0, Sum(nil))
}

func TestEvaluate_HugeDemandSaturates(t *testing.T) {
	evaluator := NewEvaluator()

	got := evaluator.Evaluate(0, []float64{1e300})
	assert.Equal(t, 1e300, got.TotalPredicted)
	assert.Equal(t, math.MaxInt, got.SuggestedPOQty)
	assert.True(t, got.AtRisk)

	got = evaluator.Evaluate(0, []float64{1e308, 1e308})
	assert.Equal(t, math.MaxFloat64, got.TotalPredicted)
	assert.Equal(t, math.MaxInt, got.SuggestedPOQty)
	assert.True(t, got.AtRisk)

	got = evaluator.Evaluate(50, []float64{-1e308, -1e308})
	assert.Equal(t, -math.MaxFloat64, got.TotalPredicted)
	assert.Equal(t, 0, got.SuggestedPOQty)
	assert.False(t, got.AtRisk)
}

func TestSum_SaturatesInsteadOfOverflowing(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, Sum([]float64{1e308, 1e308, 1e308}))
	assert.Equal(t, -math.MaxFloat64, Sum([]float64{-1e308, -1e308}))
	assert.False(t, math.IsInf(Sum([]float64{math.MaxFloat64, math.MaxFloat64}), 0))
}
