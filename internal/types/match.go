package types

// MatchStatus classifies how completely a line item is covered by the catalog.
type MatchStatus string

// Match status values.
const (
	MatchComplete MatchStatus = "COMPLETE"
	MatchPartial  MatchStatus = "PARTIAL"
	MatchNone     MatchStatus = "NONE"
)

// RiskLevel grades a risk entry.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskEntry is a non-fatal issue surfaced during matching or pricing.
type RiskEntry struct {
	Category  string    `json:"category"`
	Statement string    `json:"statement"`
	Level     RiskLevel `json:"risk_level"`
}

// MatchResult is the outcome of scoring one line item against the catalog.
// Results are immutable once produced and recomputed on every run.
type MatchResult struct {
	LineItem            CanonicalLineItem `json:"line_item"`
	Status              MatchStatus       `json:"status"`
	SelectedSKU         *InventorySKU     `json:"selected_sku,omitempty"`
	MatchPercentage     int               `json:"match_percentage"`
	Top3Recommendations []InventorySKU    `json:"top_3_recommendations"`
	ComplianceChecks    []string          `json:"compliance_checks,omitempty"`
	Risks               []RiskEntry       `json:"risks,omitempty"`
}
