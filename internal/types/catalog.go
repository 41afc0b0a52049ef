package types

// TruckType classifies the vehicle class used to deliver a catalog item.
type TruckType string

// Truck type constants as they appear in catalog records.
const (
	TruckLCV    TruckType = "LCV"
	TruckMedium TruckType = "MEDIUM_TRUCK"
	TruckHeavy  TruckType = "HEAVY_TRUCK"
	TruckMini   TruckType = "MINI_TRUCK"
)

// InventorySKU is one product record from the external catalog.
// The catalog is read-only to the pipeline; it is supplied fresh per call.
type InventorySKU struct {
	ID                string            `json:"id"`
	Category          string            `json:"category"`
	SubCategory       string            `json:"sub_category"`
	Name              string            `json:"name"`
	Specification     map[string]string `json:"specification"`
	AvailableQuantity int               `json:"available_quantity"`
	UnitPrice         float64           `json:"unit_price"`
	GSTRate           float64           `json:"gst_rate"`
	MinMarginPercent  float64           `json:"min_margin_percent"`
	TruckType         TruckType         `json:"truck_type"`
}
