package types

// FinancialBreakdown is the priced decision for a bid. All monetary fields are
// rounded to 2 decimal places when the breakdown is assembled, never during
// accumulation.
type FinancialBreakdown struct {
	BaseCost      float64 `json:"base_cost"`
	TransportCost float64 `json:"transport_cost"`
	GSTAmount     float64 `json:"gst_amount"`
	BrokerageCost float64 `json:"brokerage_cost"`
	EPBGAmount    float64 `json:"epbg_amount"`
	EMDAmount     float64 `json:"emd_amount"`
	FinalBidValue float64 `json:"final_bid_value"`

	ConfidenceScore     float64     `json:"confidence_score"`
	MatchStatus         MatchStatus `json:"match_status"`
	RequiresManualInput bool        `json:"requires_manual_input"`
	Recommendation      string      `json:"recommendation"`
	RiskEntries         []RiskEntry `json:"risk_entries"`
}

// PriceOverrides maps a line-item name to a manually supplied unit price.
// An override wins over any SKU-derived price for that item.
type PriceOverrides map[string]float64
