package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arjun/tender-agent/internal/catalog"
	"github.com/arjun/tender-agent/internal/config"
	"github.com/arjun/tender-agent/internal/credentials"
	"github.com/arjun/tender-agent/internal/extraction"
	"github.com/arjun/tender-agent/internal/llm"
	"github.com/arjun/tender-agent/internal/logger"
	"github.com/arjun/tender-agent/internal/matching"
	"github.com/arjun/tender-agent/internal/pricing"
	"github.com/arjun/tender-agent/internal/rfp"
	"github.com/arjun/tender-agent/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full document-to-decision pipeline on a tender document",
	Long: `Extracts a structured record from a tender document via the inference backend,
normalizes it into canonical line items, matches them against the inventory
catalog, and prices the bid with risk annotations.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath    string
	analyzeInputFile     string
	analyzeCatalogFile   string
	analyzeOverridesFile string
	analyzeOutputFile    string
	analyzeAPIKeys       []string
	analyzeJSONLogs      bool
	analyzeVerbose       bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "in", "i", "", "Path to tender document text file (required)")
	analyzeCmd.Flags().StringVar(&analyzeCatalogFile, "catalog", "", "Path to inventory catalog JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzeOverridesFile, "overrides", "", "Path to manual price overrides JSON file (item name -> unit price)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	analyzeCmd.Flags().StringSliceVar(&analyzeAPIKeys, "api-key", nil, "Inference API key, repeatable (defaults to GEMINI_API_KEYS env var)")
	analyzeCmd.Flags().BoolVar(&analyzeJSONLogs, "json-logs", false, "Emit logs as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
}

// Decision is the analyze command's output artifact: the stable contract
// consumed by any presentation layer.
type Decision struct {
	RunID       string                    `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Metadata    *types.BidMetadata        `json:"metadata"`
	IsBidClosed bool                      `json:"is_bid_closed"`
	LineItems   []types.CanonicalLineItem `json:"line_items"`
	Matches     []types.MatchResult       `json:"matches"`
	Financial   *types.FinancialBreakdown `json:"financial"`
	Terms       extraction.TermsSummary   `json:"terms_summary"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := &config.Config{}
	if analyzeConfigPath != "" {
		loaded, err := config.Load(analyzeConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if analyzeInputFile == "" {
		return fmt.Errorf("--in is required")
	}
	catalogPath := analyzeCatalogFile
	if catalogPath == "" {
		catalogPath = cfg.Catalog
	}
	if catalogPath == "" {
		return fmt.Errorf("--catalog is required")
	}

	log, err := logger.New(analyzeJSONLogs, analyzeVerbose || cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	keys := cfg.ResolveAPIKeys(analyzeAPIKeys)
	pool, err := credentials.NewPool(keys)
	if err != nil {
		return fmt.Errorf("no inference credentials configured (set GEMINI_API_KEYS or use --api-key): %w", err)
	}

	document, err := os.ReadFile(analyzeInputFile)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	skus, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	overrides := types.PriceOverrides{}
	if analyzeOverridesFile != "" {
		data, err := os.ReadFile(analyzeOverridesFile)
		if err != nil {
			return fmt.Errorf("failed to read overrides: %w", err)
		}
		if err := json.Unmarshal(data, &overrides); err != nil {
			return fmt.Errorf("failed to parse overrides: %w", err)
		}
	}

	models := llm.DefaultConfig()
	factory := func(ctx context.Context, apiKey string) (llm.Client, error) {
		return llm.NewGeminiClient(ctx, models, apiKey)
	}
	service := extraction.NewService(pool, factory, log)

	record, err := service.Extract(ctx, string(document))
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	terms := service.SummarizeTerms(ctx, string(document))

	meta, items, err := rfp.Normalize(record)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	matches, err := matching.NewEngine(log).Match(ctx, items, skus)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	breakdown := pricing.Price(matches, meta, overrides)

	now := time.Now()
	decision := Decision{
		RunID:       uuid.NewString(),
		GeneratedAt: now,
		Metadata:    meta,
		IsBidClosed: meta.IsBidClosed(now),
		LineItems:   items,
		Matches:     matches,
		Financial:   breakdown,
		Terms:       terms,
	}

	return writeJSON(analyzeOutputFile, decision)
}

// writeJSON writes v as indented JSON to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
