// Package matching scores canonical line items against the product catalog.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arjun/tender-agent/internal/types"
)

// Status thresholds on the final match percentage.
const (
	completeThreshold = 75
	noneThreshold     = 15
)

// Spec score constants.
const (
	noSpecScore    = 60.0
	standardsBonus = 60.0
	coverageWeight = 40.0
	specScoreFloor = 30.0
	specScoreCeil  = 100.0
)

// Availability weights relative to the requested quantity.
const (
	weightFullStock    = 1.0
	weightPartialStock = 0.8
	weightZeroStock    = 0.4
)

const maxConcurrentItems = 4

// Engine matches line items against a catalog. It is stateless between calls;
// the catalog is read-only and supplied fresh per run.
type Engine struct {
	log *zap.Logger
}

// NewEngine returns a matching engine with optional progress logging.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Match scores every line item against the catalog. Per-item scoring fans
// out concurrently; results are assembled in input order.
func (e *Engine) Match(ctx context.Context, items []types.CanonicalLineItem, catalog []types.InventorySKU) ([]types.MatchResult, error) {
	results := make([]types.MatchResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentItems)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.matchItem(item, catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		e.log.Debug("matched line item",
			zap.String("item", r.LineItem.Name),
			zap.Int("match_percentage", r.MatchPercentage),
			zap.String("status", string(r.Status)),
		)
	}
	return results, nil
}

type scoredSKU struct {
	sku        types.InventorySKU
	percentage int
}

func (e *Engine) matchItem(item types.CanonicalLineItem, catalog []types.InventorySKU) types.MatchResult {
	result := types.MatchResult{
		LineItem:            item,
		Status:              types.MatchNone,
		MatchPercentage:     0,
		Top3Recommendations: []types.InventorySKU{},
		ComplianceChecks:    complianceChecks(item),
	}

	tokens := tokenize(item.Name)
	candidates := filterCandidates(tokens, catalog)
	if len(candidates) == 0 {
		return result
	}

	scored := make([]scoredSKU, 0, len(candidates))
	for _, sku := range candidates {
		spec := specScore(item, sku)
		weight := availabilityWeight(sku.AvailableQuantity, item.Quantity)
		scored = append(scored, scoredSKU{
			sku:        sku,
			percentage: int(math.Round(spec * weight)),
		})
	}

	// Stable sort keeps catalog discovery order on ties.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].percentage > scored[j].percentage
	})

	for i := 0; i < len(scored) && i < 3; i++ {
		result.Top3Recommendations = append(result.Top3Recommendations, scored[i].sku)
	}

	best := scored[0]
	selected := best.sku
	result.SelectedSKU = &selected
	result.MatchPercentage = best.percentage
	result.Status = statusFor(best.percentage)
	result.Risks = stockRisks(item, selected)

	return result
}

// statusFor applies the threshold policy. A percentage below the NONE
// threshold downgrades the result even when a SKU was selected.
func statusFor(percentage int) types.MatchStatus {
	switch {
	case percentage >= completeThreshold:
		return types.MatchComplete
	case percentage < noneThreshold:
		return types.MatchNone
	default:
		return types.MatchPartial
	}
}

// tokenize splits an item name on whitespace and punctuation, keeping
// case-folded tokens of length >= 2.
func tokenize(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, strings.ToLower(f))
		}
	}
	return tokens
}

// filterCandidates keeps SKUs whose category, subcategory and name contain
// any line-item token as a substring, preserving catalog order.
func filterCandidates(tokens []string, catalog []types.InventorySKU) []types.InventorySKU {
	if len(tokens) == 0 {
		return nil
	}
	var candidates []types.InventorySKU
	for _, sku := range catalog {
		haystack := strings.ToLower(sku.Category + " " + sku.SubCategory + " " + sku.Name)
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				candidates = append(candidates, sku)
				break
			}
		}
	}
	return candidates
}

// specScore rates how well a SKU's specification covers the line item's spec
// strings, on a 0-100 scale clamped to [30,100].
func specScore(item types.CanonicalLineItem, sku types.InventorySKU) float64 {
	if len(item.TechnicalSpecs) == 0 {
		return noSpecScore
	}

	values := make([]string, 0, len(sku.Specification))
	for _, v := range sku.Specification {
		values = append(values, strings.ToLower(v))
	}

	score := 0.0

	// Standards bonus: a SKU spec value carrying an "IS <number>" style
	// reference that appears verbatim in the item's spec text.
	bonus := false
	for _, spec := range item.TechnicalSpecs {
		lowered := strings.ToLower(spec)
		for _, v := range values {
			if strings.Contains(v, "is") && strings.Contains(lowered, v) {
				bonus = true
				break
			}
		}
		if bonus {
			break
		}
	}
	if bonus {
		score += standardsBonus
	}

	// Coverage: fraction of item spec strings containing some meaningful
	// SKU spec value.
	covered := 0
	for _, spec := range item.TechnicalSpecs {
		lowered := strings.ToLower(spec)
		for _, v := range values {
			if len(v) > 2 && strings.Contains(lowered, v) {
				covered++
				break
			}
		}
	}
	score += coverageWeight * float64(covered) / float64(len(item.TechnicalSpecs))

	if score < specScoreFloor {
		score = specScoreFloor
	}
	if score > specScoreCeil {
		score = specScoreCeil
	}
	return score
}

// availabilityWeight discounts the spec score by stock position. Zero-stock
// SKUs stay visible for manual sourcing rather than being excluded.
func availabilityWeight(available, requested int) float64 {
	switch {
	case available <= 0:
		return weightZeroStock
	case available >= requested:
		return weightFullStock
	default:
		return weightPartialStock
	}
}

// stockRisks reports shortfalls of the selected SKU against the requested
// quantity.
func stockRisks(item types.CanonicalLineItem, sku types.InventorySKU) []types.RiskEntry {
	if item.Quantity <= 0 {
		return nil
	}
	switch {
	case sku.AvailableQuantity <= 0:
		return []types.RiskEntry{{
			Category:  "Inventory",
			Statement: fmt.Sprintf("No stock for %q: %d required, SKU %s has none", item.Name, item.Quantity, sku.ID),
			Level:     types.RiskHigh,
		}}
	case sku.AvailableQuantity < item.Quantity:
		return []types.RiskEntry{{
			Category:  "Inventory",
			Statement: fmt.Sprintf("Partial stock for %q: %d required, %d available on SKU %s", item.Name, item.Quantity, sku.AvailableQuantity, sku.ID),
			Level:     types.RiskMedium,
		}}
	default:
		return nil
	}
}

func complianceChecks(item types.CanonicalLineItem) []string {
	if len(item.Certifications) == 0 {
		return nil
	}
	checks := make([]string, 0, len(item.Certifications))
	for _, c := range item.Certifications {
		checks = append(checks, c.Name)
	}
	return checks
}
