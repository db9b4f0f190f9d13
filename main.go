// =============================================================================
// Eco-Consumption Analyzer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the ecoreport CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   ecoreport analyze       - Analyze ledgers and write reports
//   ecoreport validate      - Validate configuration and ledger headers
//   ecoreport coefficients  - Print the effective coefficient tables
//   ecoreport version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/eco-consumption-analyzer/cmd"
)

func main() {
	cmd.Execute()
}
