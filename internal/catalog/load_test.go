package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/tender-agent/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog_Valid(t *testing.T) {
	path := writeFile(t, "catalog.json", `[
		{
			"id": "SKU-CAB-1",
			"category": "Cables",
			"sub_category": "Armoured",
			"name": "PVC Armoured Cable",
			"specification": {"Standard": "IS 694", "Voltage": "1100V"},
			"available_quantity": 50,
			"unit_price": 1000,
			"gst_rate": 18,
			"truck_type": "MEDIUM_TRUCK"
		}
	]`)

	skus, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, skus, 1)

	sku := skus[0]
	assert.Equal(t, "SKU-CAB-1", sku.ID)
	assert.Equal(t, "IS 694", sku.Specification["Standard"])
	assert.Equal(t, 50, sku.AvailableQuantity)
	assert.Equal(t, types.TruckMedium, sku.TruckType)
}

func TestLoadCatalog_SchemaViolation(t *testing.T) {
	// unit_price is required and the truck type is outside the enum.
	path := writeFile(t, "catalog.json", `[
		{"id": "SKU-1", "category": "Cables", "name": "Cable", "truck_type": "DRONE"}
	]`)

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violations")
}

func TestLoadCatalog_NotAnArray(t *testing.T) {
	path := writeFile(t, "catalog.json", `{"id": "SKU-1"}`)

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violations")
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read")
}

func TestLoadCatalog_MalformedJSON(t *testing.T) {
	path := writeFile(t, "catalog.json", `[{"id": `)

	_, err := LoadCatalog(path)
	require.Error(t, err)
}

func TestLoadListings_Valid(t *testing.T) {
	path := writeFile(t, "listings.json", `[
		{
			"id": "BID-1",
			"title": "Supply of Armoured Cables",
			"org": "Dept of Supply",
			"end_date": "15-10-2026",
			"category": "Cables",
			"emd_required": true,
			"distance": 400
		},
		{"title": "Switchgear Procurement", "end_date": "01-11-2026"}
	]`)

	listings, err := LoadListings(path)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "BID-1", listings[0].ID)
	assert.True(t, listings[0].EMDRequired)
	assert.Equal(t, 400.0, listings[0].Distance)
	assert.Empty(t, listings[1].ID, "id is optional on raw listings")
}

func TestLoadListings_MissingRequiredFields(t *testing.T) {
	path := writeFile(t, "listings.json", `[{"org": "Dept of Supply"}]`)

	_, err := LoadListings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violations")
}
