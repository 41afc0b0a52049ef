// Package config provides configuration loading for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/arjun/tender-agent/internal/types"
)

// Config is the CLI configuration loadable from a JSON file. All fields are
// optional; missing values fall back to environment variables or flag
// defaults.
type Config struct {
	// APIKeys is the ordered credential list for the inference backend.
	APIKeys []string `json:"api_keys,omitempty"`
	// Catalog is the default path to the inventory catalog file.
	Catalog string `json:"catalog,omitempty"`

	// Qualification filter defaults.
	MaxAvgKms         float64 `json:"max_avg_kms,omitempty"`
	AvgDistanceKms    float64 `json:"avg_distance_kms,omitempty"`
	RatePerKm         float64 `json:"rate_per_km,omitempty"`
	AllowEMD          bool    `json:"allow_emd,omitempty"`
	MinMatchThreshold int     `json:"min_match_threshold,omitempty"`
	OptimisticFloor   int     `json:"optimistic_floor,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ResolveAPIKeys merges explicit keys with the GEMINI_API_KEYS (comma
// separated) and GEMINI_API_KEY environment variables, preserving order and
// dropping blanks.
func (c *Config) ResolveAPIKeys(flagKeys []string) []string {
	keys := append([]string{}, flagKeys...)
	keys = append(keys, c.APIKeys...)

	if env := os.Getenv("GEMINI_API_KEYS"); env != "" {
		keys = append(keys, strings.Split(env, ",")...)
	}
	if env := os.Getenv("GEMINI_API_KEY"); env != "" {
		keys = append(keys, env)
	}

	cleaned := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		cleaned = append(cleaned, k)
		seen[k] = true
	}
	return cleaned
}

// FilterConfig assembles qualification filter settings from the config file
// values, overlaid by any explicitly set flags handled by the caller.
func (c *Config) FilterConfig() types.FilterConfig {
	return types.FilterConfig{
		MaxAvgKms:         c.MaxAvgKms,
		AvgDistanceKms:    c.AvgDistanceKms,
		RatePerKm:         c.RatePerKm,
		AllowEMD:          c.AllowEMD,
		MinMatchThreshold: c.MinMatchThreshold,
		OptimisticFloor:   c.OptimisticFloor,
	}
}
