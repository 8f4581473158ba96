package domain

// Drug holds the inventory attributes of one product, keyed by NDC.
// Supplied by the inventory repository; the dashboard never mutates it.
type Drug struct {
	NDC          string `json:"ndc" mapstructure:"ndc"`                       // National Drug Code, e.g. 12345-6789
	DrugName     string `json:"drug_name" mapstructure:"drug_name"`           // display name
	OnHand       int    `json:"on_hand" mapstructure:"on_hand"`               // units in stock
	OnOrder      int    `json:"on_order" mapstructure:"on_order"`             // units already ordered
	LeadTimeDays int    `json:"lead_time_days" mapstructure:"lead_time_days"` // supplier lead time
}

// InventoryItem is one row of the inventory table: stock attributes merged
// with the forecast-derived risk assessment. Built fresh per query.
type InventoryItem struct {
	NDC            string  `json:"ndc"`
	DrugName       string  `json:"drug_name"`
	OnHand         int     `json:"on_hand"`
	OnOrder        int     `json:"on_order"`
	LeadTimeDays   int     `json:"lead_time_days"`
	Pred14P50      float64 `json:"pred14_p50"` // summed median demand over the horizon
	Risk           bool    `json:"risk"`
	SuggestedPOQty int     `json:"suggested_po_qty"`
}

// Validate reports whether the drug record can be stored.
func (d *Drug) Validate() bool {
	return d != nil && d.NDC != "" && d.OnHand >= 0 && d.OnOrder >= 0 && d.LeadTimeDays >= 0
}
