package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arjun/tender-agent/internal/catalog"
	"github.com/arjun/tender-agent/internal/config"
	"github.com/arjun/tender-agent/internal/logger"
	"github.com/arjun/tender-agent/internal/qualify"
	"github.com/arjun/tender-agent/internal/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Qualify harvested candidate bids against the inventory catalog",
	Long: `Filters and ranks raw candidate-bid listings (the output of an external
portal scan) by date window, distance, deposit requirements and catalog match
score, dropping everything that does not qualify.`,
	RunE: runDiscover,
}

var (
	discoverConfigPath   string
	discoverListingsFile string
	discoverCatalogFile  string
	discoverOutputFile   string
	discoverMaxKms       float64
	discoverAvgKms       float64
	discoverRatePerKm    float64
	discoverAllowEMD     bool
	discoverMinScore     int
	discoverBypass       bool
	discoverFloor        int
	discoverJSONLogs     bool
	discoverVerbose      bool
)

func init() {
	discoverCmd.Flags().StringVar(&discoverConfigPath, "config", "", "Path to config.json")
	discoverCmd.Flags().StringVarP(&discoverListingsFile, "listings", "l", "", "Path to candidate-bid listings JSON file (required)")
	discoverCmd.Flags().StringVar(&discoverCatalogFile, "catalog", "", "Path to inventory catalog JSON file (required)")
	discoverCmd.Flags().StringVarP(&discoverOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	discoverCmd.Flags().Float64Var(&discoverMaxKms, "max-avg-kms", 0, "Maximum candidate distance in km (default 1000)")
	discoverCmd.Flags().Float64Var(&discoverAvgKms, "avg-kms", 0, "Assumed distance for candidates without one")
	discoverCmd.Flags().Float64Var(&discoverRatePerKm, "rate-per-km", 0, "Logistics rate per km")
	discoverCmd.Flags().BoolVar(&discoverAllowEMD, "allow-emd", false, "Keep candidates requiring an earnest money deposit")
	discoverCmd.Flags().IntVar(&discoverMinScore, "min-match", 0, "Minimum match score to qualify")
	discoverCmd.Flags().BoolVar(&discoverBypass, "bypass-filters", false, "Qualify every candidate inside the date window")
	discoverCmd.Flags().IntVar(&discoverFloor, "optimistic-floor", 0, "Score assigned in place of a zero match score (0 disables)")
	discoverCmd.Flags().BoolVar(&discoverJSONLogs, "json-logs", false, "Emit logs as JSON")
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	cfg := &config.Config{}
	if discoverConfigPath != "" {
		loaded, err := config.Load(discoverConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if discoverListingsFile == "" {
		return fmt.Errorf("--listings is required")
	}
	catalogPath := discoverCatalogFile
	if catalogPath == "" {
		catalogPath = cfg.Catalog
	}
	if catalogPath == "" {
		return fmt.Errorf("--catalog is required")
	}

	log, err := logger.New(discoverJSONLogs, discoverVerbose || cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	listings, err := catalog.LoadListings(discoverListingsFile)
	if err != nil {
		return err
	}
	skus, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	filters := mergeFilterFlags(cmd, cfg.FilterConfig())

	result, err := qualify.Qualify(listings, skus, filters, log)
	if err != nil {
		return err
	}

	return writeJSON(discoverOutputFile, result)
}

// mergeFilterFlags overlays explicitly set CLI flags on the config file
// defaults.
func mergeFilterFlags(cmd *cobra.Command, filters types.FilterConfig) types.FilterConfig {
	if cmd.Flags().Changed("max-avg-kms") {
		filters.MaxAvgKms = discoverMaxKms
	}
	if cmd.Flags().Changed("avg-kms") {
		filters.AvgDistanceKms = discoverAvgKms
	}
	if cmd.Flags().Changed("rate-per-km") {
		filters.RatePerKm = discoverRatePerKm
	}
	if cmd.Flags().Changed("allow-emd") {
		filters.AllowEMD = discoverAllowEMD
	}
	if cmd.Flags().Changed("min-match") {
		filters.MinMatchThreshold = discoverMinScore
	}
	if cmd.Flags().Changed("bypass-filters") {
		filters.BypassFilters = discoverBypass
	}
	if cmd.Flags().Changed("optimistic-floor") {
		filters.OptimisticFloor = discoverFloor
	}
	return filters
}
