package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/tender-agent/internal/types"
)

func TestStatusFor_Boundaries(t *testing.T) {
	tests := []struct {
		percentage int
		expected   types.MatchStatus
	}{
		{75, types.MatchComplete},
		{74, types.MatchPartial},
		{15, types.MatchPartial},
		{14, types.MatchNone},
		{100, types.MatchComplete},
		{0, types.MatchNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusFor(tt.percentage), "percentage %d", tt.percentage)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"punctuation split", "Armoured-Cable, 3-Core", []string{"armoured", "cable", "core"}},
		{"short tokens dropped", "A 5m Cable", []string{"5m", "cable"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenize(tt.input))
		})
	}
}

func TestAvailabilityWeight(t *testing.T) {
	assert.Equal(t, weightFullStock, availabilityWeight(100, 100))
	assert.Equal(t, weightFullStock, availabilityWeight(150, 100))
	assert.Equal(t, weightPartialStock, availabilityWeight(50, 100))
	assert.Equal(t, weightZeroStock, availabilityWeight(0, 100))
	assert.Equal(t, weightZeroStock, availabilityWeight(-1, 100))
}

func TestSpecScore_NoSpecs(t *testing.T) {
	item := types.CanonicalLineItem{Name: "Cable"}
	sku := types.InventorySKU{Specification: map[string]string{"Standard": "IS 694"}}

	assert.Equal(t, noSpecScore, specScore(item, sku))
}

func TestSpecScore_ClampedToFloor(t *testing.T) {
	item := types.CanonicalLineItem{
		Name:           "Cable",
		TechnicalSpecs: []string{"completely unrelated requirement"},
	}
	sku := types.InventorySKU{Specification: map[string]string{"Voltage": "1100V"}}

	assert.Equal(t, specScoreFloor, specScore(item, sku))
}

func TestSpecScore_StandardsBonusAndFullCoverage(t *testing.T) {
	item := types.CanonicalLineItem{
		Name:           "Cable",
		TechnicalSpecs: []string{"conforming to is 694 standard"},
	}
	sku := types.InventorySKU{Specification: map[string]string{"Standard": "IS 694"}}

	// Bonus 60 for the "is"-bearing standard reference plus full coverage 40.
	assert.Equal(t, specScoreCeil, specScore(item, sku))
}

func TestMatch_NoCandidates(t *testing.T) {
	engine := NewEngine(nil)

	items := []types.CanonicalLineItem{{Name: "Transformer", Quantity: 5}}
	catalog := []types.InventorySKU{{ID: "SKU-1", Category: "Cables", Name: "Copper Cable"}}

	results, err := engine.Match(context.Background(), items, catalog)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, types.MatchNone, r.Status)
	assert.Nil(t, r.SelectedSKU)
	assert.Equal(t, 0, r.MatchPercentage)
	assert.Empty(t, r.Top3Recommendations)
}

func TestMatch_PartialStockScenario(t *testing.T) {
	engine := NewEngine(nil)

	items := []types.CanonicalLineItem{{Name: "Cables", Quantity: 100}}
	catalog := []types.InventorySKU{{
		ID:                "SKU-CAB-1",
		Category:          "Cables",
		Name:              "PVC Cable",
		AvailableQuantity: 50,
		UnitPrice:         1000,
		GSTRate:           18,
	}}

	results, err := engine.Match(context.Background(), items, catalog)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	// No specs: fixed 60, partial stock weight 0.8 -> 48.
	assert.Equal(t, 48, r.MatchPercentage)
	assert.Equal(t, types.MatchPartial, r.Status)
	require.NotNil(t, r.SelectedSKU)
	assert.Equal(t, "SKU-CAB-1", r.SelectedSKU.ID)

	require.Len(t, r.Risks, 1)
	assert.Equal(t, types.RiskMedium, r.Risks[0].Level)
}

func TestMatch_ZeroStockIsHighRiskButVisible(t *testing.T) {
	engine := NewEngine(nil)

	items := []types.CanonicalLineItem{{Name: "Cables", Quantity: 10}}
	catalog := []types.InventorySKU{{
		ID:       "SKU-EMPTY",
		Category: "Cables",
		Name:     "Cable",
	}}

	results, err := engine.Match(context.Background(), items, catalog)
	require.NoError(t, err)

	r := results[0]
	// 60 * 0.4 = 24: partial status, SKU kept visible for manual sourcing.
	assert.Equal(t, 24, r.MatchPercentage)
	assert.Equal(t, types.MatchPartial, r.Status)
	require.NotNil(t, r.SelectedSKU)

	require.Len(t, r.Risks, 1)
	assert.Equal(t, types.RiskHigh, r.Risks[0].Level)
}

func TestMatch_TiesKeepDiscoveryOrder(t *testing.T) {
	engine := NewEngine(nil)

	items := []types.CanonicalLineItem{{Name: "Cables", Quantity: 10}}
	catalog := []types.InventorySKU{
		{ID: "SKU-FIRST", Category: "Cables", AvailableQuantity: 100},
		{ID: "SKU-SECOND", Category: "Cables", AvailableQuantity: 100},
	}

	results, err := engine.Match(context.Background(), items, catalog)
	require.NoError(t, err)

	r := results[0]
	require.NotNil(t, r.SelectedSKU)
	assert.Equal(t, "SKU-FIRST", r.SelectedSKU.ID)
	require.Len(t, r.Top3Recommendations, 2)
	assert.Equal(t, "SKU-FIRST", r.Top3Recommendations[0].ID)
	assert.Equal(t, "SKU-SECOND", r.Top3Recommendations[1].ID)
}

func TestMatch_TopThreeCapped(t *testing.T) {
	engine := NewEngine(nil)

	items := []types.CanonicalLineItem{{Name: "Cables", Quantity: 10}}
	catalog := []types.InventorySKU{
		{ID: "S1", Category: "Cables", AvailableQuantity: 100},
		{ID: "S2", Category: "Cables", AvailableQuantity: 100},
		{ID: "S3", Category: "Cables", AvailableQuantity: 100},
		{ID: "S4", Category: "Cables", AvailableQuantity: 100},
	}

	results, err := engine.Match(context.Background(), items, catalog)
	require.NoError(t, err)
	assert.Len(t, results[0].Top3Recommendations, 3)
}

func TestMatch_ResultsKeepInputOrder(t *testing.T) {
	engine := NewEngine(nil)

	items := []types.CanonicalLineItem{
		{Name: "Cables", Quantity: 1},
		{Name: "Switchgear", Quantity: 1},
		{Name: "Luminaire", Quantity: 1},
	}
	catalog := []types.InventorySKU{
		{ID: "C", Category: "Cables", AvailableQuantity: 10},
		{ID: "S", Category: "Switchgear", AvailableQuantity: 10},
		{ID: "L", Category: "Luminaire", AvailableQuantity: 10},
	}

	results, err := engine.Match(context.Background(), items, catalog)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Cables", results[0].LineItem.Name)
	assert.Equal(t, "Switchgear", results[1].LineItem.Name)
	assert.Equal(t, "Luminaire", results[2].LineItem.Name)
}

func TestMatch_ComplianceChecksFromCertifications(t *testing.T) {
	engine := NewEngine(nil)

	items := []types.CanonicalLineItem{{
		Name:     "Cables",
		Quantity: 1,
		Certifications: []types.Certification{
			{Name: "ISO 9001", Source: "spec text"},
		},
	}}
	catalog := []types.InventorySKU{{ID: "C", Category: "Cables", AvailableQuantity: 10}}

	results, err := engine.Match(context.Background(), items, catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"ISO 9001"}, results[0].ComplianceChecks)
}
