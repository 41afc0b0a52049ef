package qualify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/tender-agent/internal/types"
)

// inWindow returns an end date safely inside the three-month window.
func inWindow(t *testing.T) string {
	t.Helper()
	return time.Now().UTC().AddDate(0, 1, 0).Format(candidateDateLayout)
}

func cableCatalog() []types.InventorySKU {
	return []types.InventorySKU{
		{ID: "SKU-CAB-1", Category: "Cables", AvailableQuantity: 50, TruckType: types.TruckMedium},
		{ID: "SKU-SW-1", Category: "Switchgear", AvailableQuantity: 10, TruckType: types.TruckHeavy},
	}
}

func TestQualify_InvalidConfig(t *testing.T) {
	_, err := Qualify(nil, nil, types.FilterConfig{MinMatchThreshold: 150}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter config")
}

func TestQualify_DistanceGate(t *testing.T) {
	candidates := []types.CandidateBid{{
		ID:       "BID-1",
		Title:    "Supply of Cables",
		EndDate:  inWindow(t),
		Distance: 400,
	}}
	cfg := types.FilterConfig{MaxAvgKms: 399, AllowEMD: true}

	result, err := Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Tenders)

	// At exactly the cap the candidate passes.
	cfg.MaxAvgKms = 400
	result, err = Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, result.Tenders, 1)
}

func TestQualify_BorderlineCandidatePasses(t *testing.T) {
	candidates := []types.CandidateBid{{
		ID:          "BID-EDGE",
		Title:       "Supply of Cables",
		EndDate:     inWindow(t),
		Distance:    400,
		EMDRequired: true,
	}}
	cfg := types.FilterConfig{
		MaxAvgKms:         400,
		AllowEMD:          true,
		MinMatchThreshold: 20,
	}

	result, err := Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, result.Tenders, 1)

	tender := result.Tenders[0]
	assert.True(t, tender.IsQualified)
	// One of two catalog SKUs matches the title.
	assert.Equal(t, 50, tender.MatchScore)
	assert.True(t, tender.InStock)
}

func TestQualify_EMDGate(t *testing.T) {
	candidates := []types.CandidateBid{{
		ID:          "BID-EMD",
		Title:       "Supply of Cables",
		EndDate:     inWindow(t),
		Distance:    100,
		EMDRequired: true,
	}}
	cfg := types.FilterConfig{}

	result, err := Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Tenders, "EMD-demanding candidates need AllowEMD")

	cfg.AllowEMD = true
	result, err = Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, result.Tenders, 1)
}

func TestQualify_BypassSkipsAllGatesButNotWindow(t *testing.T) {
	candidates := []types.CandidateBid{
		{
			ID:          "BID-FAR",
			Title:       "Unrelated Machinery",
			EndDate:     inWindow(t),
			Distance:    5000,
			EMDRequired: true,
		},
		{
			ID:      "BID-PAST",
			Title:   "Supply of Cables",
			EndDate: "01-01-2020",
		},
	}
	cfg := types.FilterConfig{BypassFilters: true}

	result, err := Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, result.Tenders, 1)
	assert.Equal(t, "BID-FAR", result.Tenders[0].ID)
}

func TestQualify_MalformedDatesCounted(t *testing.T) {
	candidates := []types.CandidateBid{
		{ID: "BID-BAD", Title: "Supply of Cables", EndDate: "31/12/2026"},
		{ID: "BID-OK", Title: "Supply of Cables", EndDate: inWindow(t), Distance: 100},
	}
	cfg := types.FilterConfig{AllowEMD: true}

	result, err := Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.MalformedDates)
	require.Len(t, result.Tenders, 1)
	assert.Equal(t, "BID-OK", result.Tenders[0].ID)
}

func TestQualify_DateWindow(t *testing.T) {
	now := time.Now().UTC()
	candidates := []types.CandidateBid{
		{ID: "BID-TODAY", Title: "Supply of Cables", EndDate: now.Format(candidateDateLayout)},
		{ID: "BID-PAST", Title: "Supply of Cables", EndDate: now.AddDate(0, 0, -1).Format(candidateDateLayout)},
		{ID: "BID-FUTURE", Title: "Supply of Cables", EndDate: now.AddDate(0, 4, 0).Format(candidateDateLayout)},
	}
	cfg := types.FilterConfig{AllowEMD: true}

	result, err := Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)

	require.Len(t, result.Tenders, 1)
	assert.Equal(t, "BID-TODAY", result.Tenders[0].ID)
	assert.Zero(t, result.MalformedDates)
}

func TestQualify_SortedByScoreDescending(t *testing.T) {
	candidates := []types.CandidateBid{
		{ID: "BID-ONE", Title: "Unrelated Machinery", EndDate: inWindow(t), Distance: 100},
		{ID: "BID-TWO", Title: "Cables and Switchgear Package", EndDate: inWindow(t), Distance: 100},
		{ID: "BID-THREE", Title: "Supply of Cables", EndDate: inWindow(t), Distance: 100},
	}
	cfg := types.FilterConfig{AllowEMD: true}

	result, err := Qualify(candidates, cableCatalog(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, result.Tenders, 3)

	assert.Equal(t, "BID-TWO", result.Tenders[0].ID) // both SKUs match: 100
	assert.Equal(t, "BID-THREE", result.Tenders[1].ID)
	assert.Equal(t, "BID-ONE", result.Tenders[2].ID)
}

func TestEvaluate_OptimisticFloor(t *testing.T) {
	candidate := types.CandidateBid{ID: "BID-NIL", Title: "Unrelated Machinery", Distance: 100}

	tender := evaluate(candidate, cableCatalog(), types.FilterConfig{})
	assert.Equal(t, 0, tender.MatchScore)

	tender = evaluate(candidate, cableCatalog(), types.FilterConfig{OptimisticFloor: 25})
	assert.Equal(t, 25, tender.MatchScore)
}

func TestEvaluate_DistanceFallback(t *testing.T) {
	candidate := types.CandidateBid{ID: "BID-NODIST", Title: "Supply of Cables"}
	cfg := types.FilterConfig{AvgDistanceKms: 250, RatePerKm: 2}

	tender := evaluate(candidate, cableCatalog(), cfg)

	assert.Equal(t, 250.0, tender.Distance)
	// Medium truck multiplier 0.7 on the first matching SKU.
	assert.InDelta(t, 250*2*0.7, tender.LogisticsCost, 1e-9)
}

func TestEvaluate_AssignsIDWhenMissing(t *testing.T) {
	tender := evaluate(types.CandidateBid{Title: "Supply of Cables"}, cableCatalog(), types.FilterConfig{})
	assert.NotEmpty(t, tender.ID)
}

func TestEvaluate_EmptyCatalog(t *testing.T) {
	tender := evaluate(types.CandidateBid{ID: "BID-X", Title: "Supply of Cables"}, nil, types.FilterConfig{})
	assert.Equal(t, 0, tender.MatchScore)
	assert.False(t, tender.InStock)
}

func TestTruckMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		matching []types.InventorySKU
		expected float64
	}{
		{"heavy", []types.InventorySKU{{TruckType: types.TruckHeavy}}, 1.0},
		{"medium", []types.InventorySKU{{TruckType: types.TruckMedium}}, 0.7},
		{"lcv", []types.InventorySKU{{TruckType: types.TruckLCV}}, 0.4},
		{"mini", []types.InventorySKU{{TruckType: types.TruckMini}}, 0.4},
		{"unknown type", []types.InventorySKU{{TruckType: "hovercraft"}}, 1.0},
		{"no matches", nil, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truckMultiplier(tt.matching))
		})
	}
}

func TestRiskBand(t *testing.T) {
	assert.Equal(t, types.RiskLow, riskBand(80, true))
	assert.Equal(t, types.RiskMedium, riskBand(80, false))
	assert.Equal(t, types.RiskMedium, riskBand(50, false))
	assert.Equal(t, types.RiskHigh, riskBand(40, true))
	assert.Equal(t, types.RiskHigh, riskBand(0, false))
}
