// Package types defines the shared data model for the tender analysis pipeline.
package types

import (
	"strings"
	"time"
)

// BidMetadata holds the administrative fields resolved from an extracted tender record.
type BidMetadata struct {
	BidNumber           string `json:"bid_number"`
	IssuingOrganization string `json:"issuing_organization"`
	BidType             string `json:"bid_type"`
	BidEndDate          string `json:"bid_end_date"`
	OfferValidityDays   int    `json:"offer_validity_days"`
	DeliveryDays        int    `json:"delivery_days"`
	ItemCategory        string `json:"item_category"`
	TotalQuantity       int    `json:"total_quantity"`
	OfficeName          string `json:"office_name"`

	EMDAmount    int     `json:"emd_amount"`
	EMDRequired  bool    `json:"emd_required"`
	EPBGAmount   int     `json:"epbg_amount"`
	EPBGRequired bool    `json:"epbg_required"`
	EPBGPercent  float64 `json:"epbg_percent,omitempty"`

	OptionClause string `json:"option_clause,omitempty"`
}

// IsBidClosed reports whether the bid end date has passed relative to now.
// The value is derived on every call and never stored.
func (m *BidMetadata) IsBidClosed(now time.Time) bool {
	end, ok := ParseBidDate(m.BidEndDate)
	if !ok {
		return false
	}
	return now.After(end)
}

// bidDateLayouts lists the date formats seen in extracted tender records.
var bidDateLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseBidDate parses a bid end-date string against the known layouts.
func ParseBidDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range bidDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Certification is a compliance standard detected in a line item's specification text.
// Verified is always false at creation; verification is a separate workflow.
type Certification struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Verified bool   `json:"verified"`
}

// CanonicalLineItem is the normalized form of one priced entry in a tender.
// Normalization guarantees every bid yields at least one line item, falling
// back to a zero-quantity placeholder when extraction recovered nothing.
type CanonicalLineItem struct {
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	TechnicalSpecs    []string        `json:"technical_specs"`
	RequiredStandards []string        `json:"required_standards,omitempty"`
	Certifications    []Certification `json:"certifications,omitempty"`
}
