// Package llm wraps the generative inference backend behind a small client
// abstraction so the extraction service can swap credentials per attempt and
// tests can substitute a fake backend.
package llm

// ModelTier represents the capability level requested for a generation call.
type ModelTier string

const (
	// TierLite is for narrow tasks such as the terms-and-conditions summary.
	TierLite ModelTier = "lite"
	// TierStandard is for the primary structured extraction pass.
	TierStandard ModelTier = "standard"
)

// Config maps tiers to concrete model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model assignment.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// Model returns the model name for a tier, falling back to the standard tier.
func (c *Config) Model(tier ModelTier) string {
	if m, ok := c.Models[tier]; ok {
		return m
	}
	return c.Models[TierStandard]
}

// GenerateOptions carries per-call generation parameters.
type GenerateOptions struct {
	Tier            ModelTier
	Temperature     float32
	MaxOutputTokens int32
}
