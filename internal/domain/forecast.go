package domain

import (
	"encoding/json"
	"math"
)

// ForecastHorizonDays is the number of future days predicted_demand covers.
const ForecastHorizonDays = 14

// RawForecastResponse is the normalized body of GET {backend}/predict.
// ForecastDates[i] corresponds to PredictedDemand[i]; lengths are not forced equal.
type RawForecastResponse struct {
	ForecastDates   []string  `json:"forecast_dates"`
	PredictedDemand []float64 `json:"predicted_demand"`
	Status          string    `json:"status"`
	Confidence      *float64  `json:"confidence,omitempty"`       // model confidence, 0..1
	SuggestedPOQty  *float64  `json:"suggested_po_qty,omitempty"` // upstream hint, not used for scoring
	AtRisk          *bool     `json:"at_risk,omitempty"`          // upstream hint, not used for scoring
	FDAStatus       string    `json:"fda_status,omitempty"`       // openFDA shortage status
}

// ForecastPoint is one day of a banded demand forecast.
type ForecastPoint struct {
	Date string  `json:"date"` // YYYY-MM-DD, as sent by the upstream
	P05  float64 `json:"p05"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
}

// UnmarshalJSON decodes the upstream payload without failing on wrong-typed fields.
// Missing or non-array series decode as empty; non-numeric demand entries decode as 0;
// non-string dates decode as "". Only syntactically invalid JSON returns an error.
func (r *RawForecastResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = RawForecastResponse{
		ForecastDates:   decodeStrings(raw["forecast_dates"]),
		PredictedDemand: decodeNumbers(raw["predicted_demand"]),
	}

	_ = json.Unmarshal(raw["status"], &r.Status)
	_ = json.Unmarshal(raw["fda_status"], &r.FDAStatus)

	r.Confidence = optionalNumber(raw["confidence"])
	r.SuggestedPOQty = optionalNumber(raw["suggested_po_qty"])
	r.AtRisk = optionalBool(raw["at_risk"])

	return nil
}

// MarshalJSON always emits the series as arrays, never null.
func (r RawForecastResponse) MarshalJSON() ([]byte, error) {
	type alias RawForecastResponse
	out := alias(r)
	if out.ForecastDates == nil {
		out.ForecastDates = []string{}
	}
	if out.PredictedDemand == nil {
		out.PredictedDemand = []float64{}
	}
	return json.Marshal(out)
}

func decodeStrings(msg json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return []string{}
	}
	out := make([]string, len(items))
	for i, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out[i] = s
		}
	}
	return out
}

func decodeNumbers(msg json.RawMessage) []float64 {
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return []float64{}
	}
	out := make([]float64, len(items))
	for i, item := range items {
		var f float64
		if json.Unmarshal(item, &f) == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			out[i] = f
		}
	}
	return out
}

func optionalNumber(msg json.RawMessage) *float64 {
	if len(msg) == 0 || string(msg) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(msg, &f); err != nil {
		return nil
	}
	return &f
}

func optionalBool(msg json.RawMessage) *bool {
	if len(msg) == 0 || string(msg) == "null" {
		return nil
	}
	var b bool
	if err := json.Unmarshal(msg, &b); err != nil {
		return nil
	}
	return &b
}

// Clone returns a deep copy so cached responses cannot be mutated by callers.
func (r RawForecastResponse) Clone() RawForecastResponse {
	out := r
	out.ForecastDates = append([]string(nil), r.ForecastDates...)
	out.PredictedDemand = append([]float64(nil), r.PredictedDemand...)
	if out.ForecastDates == nil {
		out.ForecastDates = []string{}
	}
	if out.PredictedDemand == nil {
		out.PredictedDemand = []float64{}
	}
	if r.Confidence != nil {
		v := *r.Confidence
		out.Confidence = &v
	}
	if r.SuggestedPOQty != nil {
		v := *r.SuggestedPOQty
		out.SuggestedPOQty = &v
	}
	if r.AtRisk != nil {
		v := *r.AtRisk
		out.AtRisk = &v
	}
	return out
}
