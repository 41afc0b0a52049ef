// Package rfp normalizes the loosely-structured extraction record into bid
// metadata and canonical line items.
//
// The inference backend produces several alternative shapes for line-item
// data depending on how the source document was laid out. Shape detection is
// an ordered predicate chain; the first matching shape wins, and an absolute
// fallback guarantees callers never observe an empty item list.
package rfp

import (
	"strings"

	"github.com/arjun/tender-agent/internal/types"
)

// Shape identifies which layout the extraction used for line-item data.
type Shape int

// Shapes in detection precedence order.
const (
	// ShapeItemList is the richest layout: a list of item entries, each
	// optionally carrying a nested consignee list.
	ShapeItemList Shape = iota
	// ShapeSpecList is a list of named items with spec text and parameters.
	ShapeSpecList
	// ShapeSpecObject is a single flattened key/value spec block describing
	// one implicit item.
	ShapeSpecObject
	// ShapeUnknown triggers the placeholder fallback.
	ShapeUnknown
)

var (
	itemListKeys = []string{"item_details", "items", "item_list"}
	specKeys     = []string{"technical_specifications", "technical_specs", "specifications"}
)

// DetectShape classifies the record's line-item layout.
func DetectShape(record map[string]any) Shape {
	for _, key := range itemListKeys {
		if list, ok := asSlice(record[key]); ok && len(list) > 0 {
			return ShapeItemList
		}
	}
	for _, key := range specKeys {
		switch record[key].(type) {
		case []any:
			if list, _ := asSlice(record[key]); len(list) > 0 {
				return ShapeSpecList
			}
		case map[string]any:
			return ShapeSpecObject
		}
	}
	return ShapeUnknown
}

// Normalize converts an extraction record into bid metadata and canonical
// line items. It fails only when record is not a structured object; every
// data-quality problem degrades to defaults instead.
func Normalize(record any) (*types.BidMetadata, []types.CanonicalLineItem, error) {
	rec, ok := asMap(record)
	if !ok {
		return nil, nil, ErrInvalidRecord
	}

	meta := extractMetadata(rec)

	var items []types.CanonicalLineItem
	switch DetectShape(rec) {
	case ShapeItemList:
		items = itemsFromItemList(rec)
	case ShapeSpecList:
		items = itemsFromSpecList(rec)
	case ShapeSpecObject:
		items = itemsFromSpecObject(rec, meta)
	}

	if len(items) == 0 {
		items = []types.CanonicalLineItem{placeholderItem(meta)}
	}

	for i := range items {
		items[i].Certifications = DetectCertifications(items[i].TechnicalSpecs)
	}

	return meta, items, nil
}

func itemsFromItemList(record map[string]any) []types.CanonicalLineItem {
	var list []any
	for _, key := range itemListKeys {
		if l, ok := asSlice(record[key]); ok && len(l) > 0 {
			list = l
			break
		}
	}

	var items []types.CanonicalLineItem
	for _, raw := range list {
		entry, ok := asMap(raw)
		if !ok {
			continue
		}

		item := types.CanonicalLineItem{
			Name:              firstString(entry, "item_name", "name", "item", "category_code"),
			TechnicalSpecs:    stringList(entry["specifications"]),
			RequiredStandards: stringList(entry["required_standards"]),
		}

		// Consignee quantities win over a flat quantity field; the nested
		// list is the authoritative demand breakdown in this layout.
		if consignees, ok := asSlice(entry["consignees"]); ok && len(consignees) > 0 {
			total := 0
			for _, c := range consignees {
				if cm, ok := asMap(c); ok {
					total += firstInt(cm, "quantity", "qty")
				}
			}
			item.Quantity = total
		} else {
			item.Quantity = firstInt(entry, "quantity", "qty", "total_quantity")
		}

		if item.Quantity < 0 {
			item.Quantity = 0
		}
		if item.Name == "" {
			item.Name = "Unspecified Item"
		}
		items = append(items, item)
	}
	return items
}

func itemsFromSpecList(record map[string]any) []types.CanonicalLineItem {
	var list []any
	for _, key := range specKeys {
		if l, ok := asSlice(record[key]); ok && len(l) > 0 {
			list = l
			break
		}
	}

	var items []types.CanonicalLineItem
	for _, raw := range list {
		entry, ok := asMap(raw)
		if !ok {
			continue
		}

		specs := stringList(entry["specification"])
		specs = append(specs, stringList(entry["specs"])...)
		if params, ok := asMap(entry["parameters"]); ok {
			specs = append(specs, pairList(params)...)
		}

		item := types.CanonicalLineItem{
			Name:           firstString(entry, "item_name", "name", "item"),
			Quantity:       firstInt(entry, "quantity", "qty"),
			TechnicalSpecs: specs,
		}
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		if item.Name == "" {
			item.Name = "Unspecified Item"
		}
		items = append(items, item)
	}
	return items
}

func itemsFromSpecObject(record map[string]any, meta *types.BidMetadata) []types.CanonicalLineItem {
	var specObj map[string]any
	for _, key := range specKeys {
		if m, ok := asMap(record[key]); ok {
			specObj = m
			break
		}
	}

	name := meta.ItemCategory
	if name == "" {
		name = "Unspecified Item"
	}

	return []types.CanonicalLineItem{{
		Name:           name,
		Quantity:       meta.TotalQuantity,
		TechnicalSpecs: pairList(specObj),
	}}
}

// placeholderItem is the absolute fallback: one zero-quantity item so that
// downstream engines always have something to operate on.
func placeholderItem(meta *types.BidMetadata) types.CanonicalLineItem {
	name := meta.ItemCategory
	if name == "" {
		name = "Unspecified Item"
	}
	return types.CanonicalLineItem{
		Name:           name,
		Quantity:       0,
		TechnicalSpecs: []string{},
	}
}

// extractMetadata resolves bid metadata through per-field fallback chains.
func extractMetadata(record map[string]any) *types.BidMetadata {
	details, ok := asMap(record["bid_details"])
	if !ok {
		details = record
	}

	meta := &types.BidMetadata{
		BidNumber:           firstString(details, "bid_number", "bid_no", "tender_number", "bidNumber"),
		IssuingOrganization: firstString(details, "issuing_organization", "organization", "organisation_name", "department"),
		BidType:             firstString(details, "bid_type", "type"),
		BidEndDate:          firstString(details, "bid_end_date", "end_date", "closing_date", "bid_end_date_time"),
		OfferValidityDays:   firstInt(details, "offer_validity_days", "offer_validity"),
		DeliveryDays:        firstInt(details, "delivery_days", "delivery_period"),
		ItemCategory:        firstString(details, "item_category", "category"),
		TotalQuantity:       firstInt(details, "total_quantity", "quantity"),
		OfficeName:          firstString(details, "office_name", "office"),
	}

	fin, ok := asMap(record["financial_conditions"])
	if !ok {
		fin = details
	}
	meta.EMDAmount = firstInt(fin, "emd_amount", "emd")
	meta.EPBGAmount = firstInt(fin, "epbg_amount", "epbg")
	meta.EPBGPercent = firstFloat(fin, "epbg_percent", "epbg_percentage")
	meta.EMDRequired = truthy(fin["emd_required"]) || meta.EMDAmount > 0
	meta.EPBGRequired = truthy(fin["epbg_required"]) || meta.EPBGAmount > 0

	meta.OptionClause = optionClause(record)

	return meta
}

// optionClause returns the first buyer-added term mentioning an option
// clause, case-insensitively.
func optionClause(record map[string]any) string {
	terms, ok := asSlice(record["buyer_added_terms"])
	if !ok {
		terms, _ = asSlice(record["buyer_terms"])
	}
	for _, raw := range terms {
		term := stringify(raw)
		if strings.Contains(strings.ToUpper(term), "OPTION") {
			return term
		}
	}
	return ""
}
