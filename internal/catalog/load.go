// Package catalog loads and validates the inventory catalog and the raw
// candidate-bid listings files before they enter the engines.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/arjun/tender-agent/internal/types"
)

//go:embed catalog.schema.json
var catalogSchema []byte

//go:embed listings.schema.json
var listingsSchema []byte

// LoadCatalog reads and validates an inventory catalog JSON file.
func LoadCatalog(path string) ([]types.InventorySKU, error) {
	var skus []types.InventorySKU
	if err := loadValidated(path, catalogSchema, &skus); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return skus, nil
}

// LoadListings reads and validates a candidate-bid listings JSON file, the
// output shape of the external portal scan.
func LoadListings(path string) ([]types.CandidateBid, error) {
	var listings []types.CandidateBid
	if err := loadValidated(path, listingsSchema, &listings); err != nil {
		return nil, fmt.Errorf("listings %s: %w", path, err)
	}
	return listings, nil
}

func loadValidated(path string, schema []byte, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("schema violations: %v", describeErrors(result))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

func describeErrors(result *gojsonschema.Result) []string {
	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs
}
