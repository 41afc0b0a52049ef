package types

// CandidateBid is one raw listing harvested by the external portal scan.
// Only the shape matters to the pipeline; the scan itself lives elsewhere.
type CandidateBid struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Org               string  `json:"org"`
	EndDate           string  `json:"end_date"` // dd-mm-yyyy
	Category          string  `json:"category"`
	URL               string  `json:"url"`
	EMDRequired       bool    `json:"emd_required"`
	ConsigneeLocation string  `json:"consignee_location"`
	Distance          float64 `json:"distance,omitempty"`
}

// Tender is a qualified candidate bid annotated with discovery-time metrics.
// Produced fresh per scan and never persisted by the pipeline.
type Tender struct {
	CandidateBid

	MatchScore    int       `json:"match_score"`
	InStock       bool      `json:"in_stock"`
	LogisticsCost float64   `json:"logistics_cost"`
	Risk          RiskLevel `json:"risk"`
	IsQualified   bool      `json:"is_qualified"`
}

// FilterConfig drives the qualification engine. Zero-valued numeric fields
// fall back to documented defaults at evaluation time.
type FilterConfig struct {
	// MaxAvgKms caps the candidate distance; 0 means the 1000 km default.
	MaxAvgKms float64 `json:"max_avg_kms" validate:"gte=0"`
	// AvgDistanceKms is the assumed distance for candidates that carry none.
	AvgDistanceKms float64 `json:"avg_distance_kms" validate:"gte=0"`
	// RatePerKm is the logistics cost rate in currency units per km.
	RatePerKm float64 `json:"rate_per_km" validate:"gte=0"`
	// AllowEMD keeps candidates that demand an earnest money deposit.
	AllowEMD bool `json:"allow_emd"`
	// MinMatchThreshold is the minimum match score to qualify.
	MinMatchThreshold int `json:"min_match_threshold" validate:"gte=0,lte=100"`
	// BypassFilters qualifies every candidate inside the date window.
	BypassFilters bool `json:"bypass_filters"`
	// OptimisticFloor, when positive, is assigned in place of a zero match
	// score. It replaces the historical random [10,40) substitution with an
	// explicit, deterministic policy. Default 0: zero scores stay zero.
	OptimisticFloor int `json:"optimistic_floor" validate:"gte=0,lt=100"`
}
