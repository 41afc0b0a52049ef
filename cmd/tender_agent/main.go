// Package main provides the tender analysis CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tender_agent",
	Short: "Tender document analysis and bid qualification",
	Long:  "tender_agent turns unstructured tender documents into structured, financially priced, risk-annotated bid decisions, and scans candidate listings for qualified tenders.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
