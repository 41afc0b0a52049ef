// Package qualify decides which raw candidate bids from a discovery scan are
// worth deep analysis.
package qualify

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arjun/tender-agent/internal/types"
)

// candidateDateLayout is the dd-mm-yyyy end date carried by portal listings.
const candidateDateLayout = "02-01-2006"

// defaultMaxAvgKms caps candidate distance when the filter leaves it unset.
const defaultMaxAvgKms = 1000.0

// windowMonths bounds how far ahead a candidate's end date may lie.
const windowMonths = 3

// truckMultipliers discount the logistics rate by vehicle class.
var truckMultipliers = map[types.TruckType]float64{
	types.TruckHeavy:  1.0,
	types.TruckMedium: 0.7,
	types.TruckLCV:    0.4,
	types.TruckMini:   0.4,
}

// Result is the outcome of one qualification scan. MalformedDates counts
// candidates dropped for unparseable end dates so data-quality problems stay
// visible instead of disappearing silently.
type Result struct {
	Tenders        []types.Tender `json:"tenders"`
	MalformedDates int            `json:"malformed_dates"`
}

var validate = validator.New()

// Qualify filters and ranks candidate bids against the catalog. Non-qualified
// candidates are dropped entirely; the returned tenders are sorted by match
// score descending.
func Qualify(candidates []types.CandidateBid, catalog []types.InventorySKU, cfg types.FilterConfig, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid filter config: %w", err)
	}

	maxKms := cfg.MaxAvgKms
	if maxKms <= 0 {
		maxKms = defaultMaxAvgKms
	}

	now := time.Now().UTC()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, windowMonths, 0)

	result := &Result{Tenders: []types.Tender{}}
	for _, candidate := range candidates {
		endDate, err := time.Parse(candidateDateLayout, strings.TrimSpace(candidate.EndDate))
		if err != nil {
			result.MalformedDates++
			log.Warn("candidate dropped: malformed end date",
				zap.String("id", candidate.ID),
				zap.String("end_date", candidate.EndDate),
			)
			continue
		}
		if endDate.Before(windowStart) || endDate.After(windowEnd) {
			continue
		}

		tender := evaluate(candidate, catalog, cfg)

		qualified := cfg.BypassFilters ||
			(tender.Distance <= maxKms &&
				(cfg.AllowEMD || !candidate.EMDRequired) &&
				tender.MatchScore >= cfg.MinMatchThreshold)
		if !qualified {
			continue
		}

		tender.IsQualified = true
		result.Tenders = append(result.Tenders, tender)
	}

	sort.SliceStable(result.Tenders, func(i, j int) bool {
		return result.Tenders[i].MatchScore > result.Tenders[j].MatchScore
	})

	log.Info("qualification scan complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("qualified", len(result.Tenders)),
		zap.Int("malformed_dates", result.MalformedDates),
	)
	return result, nil
}

// evaluate computes the discovery-time metrics for one candidate.
func evaluate(candidate types.CandidateBid, catalog []types.InventorySKU, cfg types.FilterConfig) types.Tender {
	matching := matchingSKUs(candidate, catalog)

	denominator := len(catalog)
	if denominator < 1 {
		denominator = 1
	}
	score := int(math.Round(100 * float64(len(matching)) / float64(denominator)))
	if score == 0 && cfg.OptimisticFloor > 0 {
		// Deterministic floor instead of the old random [10,40) substitute.
		score = cfg.OptimisticFloor
	}

	inStock := false
	for _, sku := range matching {
		if sku.AvailableQuantity > 0 {
			inStock = true
			break
		}
	}

	distance := candidate.Distance
	if distance <= 0 {
		distance = cfg.AvgDistanceKms
	}

	tender := types.Tender{
		CandidateBid:  candidate,
		MatchScore:    score,
		InStock:       inStock,
		LogisticsCost: distance * cfg.RatePerKm * truckMultiplier(matching),
		Risk:          riskBand(score, inStock),
	}
	tender.Distance = distance
	if tender.ID == "" {
		tender.ID = uuid.NewString()
	}
	return tender
}

// matchingSKUs keeps catalog items whose category or subcategory appears in
// the candidate's title or category text, case-insensitively.
func matchingSKUs(candidate types.CandidateBid, catalog []types.InventorySKU) []types.InventorySKU {
	text := strings.ToLower(candidate.Title + " " + candidate.Category)

	var matching []types.InventorySKU
	for _, sku := range catalog {
		category := strings.ToLower(sku.Category)
		subCategory := strings.ToLower(sku.SubCategory)
		if (category != "" && strings.Contains(text, category)) ||
			(subCategory != "" && strings.Contains(text, subCategory)) {
			matching = append(matching, sku)
		}
	}
	return matching
}

// truckMultiplier picks the multiplier from the first matching SKU's truck
// type; an empty match list or unknown type costs the full rate.
func truckMultiplier(matching []types.InventorySKU) float64 {
	for _, sku := range matching {
		if m, ok := truckMultipliers[sku.TruckType]; ok {
			return m
		}
	}
	return 1.0
}

func riskBand(score int, inStock bool) types.RiskLevel {
	switch {
	case score > 75 && inStock:
		return types.RiskLow
	case score > 40:
		return types.RiskMedium
	default:
		return types.RiskHigh
	}
}
