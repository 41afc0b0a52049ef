// Package pricing rolls match results up into a priced, risk-annotated bid
// decision.
package pricing

import (
	"fmt"
	"math"

	"github.com/arjun/tender-agent/internal/types"
)

// Fixed buffer rates applied per item subtotal.
const (
	brokerageRate = 0.02
	transportRate = 0.10
)

// Security deposit defaults, as percentages of base cost.
const (
	defaultEMDPercent  = 2.0
	defaultEPBGPercent = 3.0
)

// Recommendation strings gated on the final bid value.
const (
	recommendProceed = "Proceed with bid."
	recommendManual  = "Manual sourcing required."
)

// Price computes the financial breakdown for a bid. Overrides win over
// SKU-derived prices; items with neither contribute nothing to the sums and
// surface as high-risk entries instead. All monetary fields are rounded once,
// at assembly.
func Price(results []types.MatchResult, meta *types.BidMetadata, overrides types.PriceOverrides) *types.FinancialBreakdown {
	var (
		baseCost  float64
		gst       float64
		brokerage float64
		transport float64
		risks     []types.RiskEntry
	)

	for _, r := range results {
		item := r.LineItem
		qty := float64(item.Quantity)

		unitPrice, gstRate, priced := resolvePrice(r, overrides, &risks)
		if !priced {
			risks = append(risks, types.RiskEntry{
				Category:  "Pricing",
				Statement: fmt.Sprintf("No price source for %q: item excluded from totals", item.Name),
				Level:     types.RiskHigh,
			})
			continue
		}

		itemBase := unitPrice * qty
		baseCost += itemBase
		gst += itemBase * gstRate / 100
		brokerage += itemBase * brokerageRate
		transport += itemBase * transportRate
	}

	emd := depositAmount(meta.EMDRequired, baseCost, defaultEMDPercent)
	epbgPercent := meta.EPBGPercent
	if epbgPercent <= 0 {
		epbgPercent = defaultEPBGPercent
	}
	epbg := depositAmount(meta.EPBGRequired, baseCost, epbgPercent)

	finalValue := baseCost + transport + gst + brokerage + epbg + emd

	breakdown := &types.FinancialBreakdown{
		BaseCost:      round2(baseCost),
		TransportCost: round2(transport),
		GSTAmount:     round2(gst),
		BrokerageCost: round2(brokerage),
		EPBGAmount:    round2(epbg),
		EMDAmount:     round2(emd),
		FinalBidValue: round2(finalValue),

		ConfidenceScore:     confidenceScore(results),
		MatchStatus:         aggregateStatus(results),
		RequiresManualInput: baseCost == 0 && len(results) > 0,
		RiskEntries:         risks,
	}

	if breakdown.FinalBidValue > 0 {
		breakdown.Recommendation = recommendProceed
	} else {
		breakdown.Recommendation = recommendManual
	}

	return breakdown
}

// resolvePrice picks the price source for one match result: manual override,
// then selected SKU. Stock risks from the matching stage are restated here so
// the breakdown is self-contained.
func resolvePrice(r types.MatchResult, overrides types.PriceOverrides, risks *[]types.RiskEntry) (unitPrice, gstRate float64, ok bool) {
	if override, found := overrides[r.LineItem.Name]; found {
		*risks = append(*risks, types.RiskEntry{
			Category:  "Pricing",
			Statement: fmt.Sprintf("Manual price override applied for %q", r.LineItem.Name),
			Level:     types.RiskLow,
		})
		// GST still follows the selected SKU when one exists.
		if r.SelectedSKU != nil {
			gstRate = r.SelectedSKU.GSTRate
		}
		return override, gstRate, true
	}

	if r.SelectedSKU == nil {
		return 0, 0, false
	}

	*risks = append(*risks, stockRisks(r)...)
	return r.SelectedSKU.UnitPrice, r.SelectedSKU.GSTRate, true
}

func stockRisks(r types.MatchResult) []types.RiskEntry {
	item := r.LineItem
	sku := r.SelectedSKU
	if item.Quantity <= 0 || sku == nil {
		return nil
	}
	switch {
	case sku.AvailableQuantity <= 0:
		return []types.RiskEntry{{
			Category:  "Inventory",
			Statement: fmt.Sprintf("Zero stock priced for %q (SKU %s)", item.Name, sku.ID),
			Level:     types.RiskHigh,
		}}
	case sku.AvailableQuantity < item.Quantity:
		return []types.RiskEntry{{
			Category:  "Inventory",
			Statement: fmt.Sprintf("Partial stock priced for %q: %d of %d available (SKU %s)", item.Name, sku.AvailableQuantity, item.Quantity, sku.ID),
			Level:     types.RiskMedium,
		}}
	default:
		return nil
	}
}

// depositAmount computes a security deposit, zero when the bid states it is
// not required.
func depositAmount(required bool, base, percent float64) float64 {
	if !required {
		return 0
	}
	return base * percent / 100
}

// aggregateStatus is COMPLETE only when every item is COMPLETE, PARTIAL when
// at least one item is PARTIAL or better, NONE otherwise.
func aggregateStatus(results []types.MatchResult) types.MatchStatus {
	if len(results) == 0 {
		return types.MatchNone
	}

	allComplete := true
	anyResolved := false
	for _, r := range results {
		switch r.Status {
		case types.MatchComplete:
			anyResolved = true
		case types.MatchPartial:
			anyResolved = true
			allComplete = false
		default:
			allComplete = false
		}
	}

	switch {
	case allComplete:
		return types.MatchComplete
	case anyResolved:
		return types.MatchPartial
	default:
		return types.MatchNone
	}
}

// confidenceScore is the arithmetic mean of match percentages, 0 when there
// are no items.
func confidenceScore(results []types.MatchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0
	for _, r := range results {
		total += r.MatchPercentage
	}
	return round2(float64(total) / float64(len(results)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
