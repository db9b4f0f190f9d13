// =============================================================================
// Eco-Consumption Analyzer - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It checks the configuration and
// the coefficient tables and, when a ledger is given, reports its sheet, the
// resolved columns and the accounting mode without analyzing anything.
//
// COMMAND USAGE:
//   ecoreport validate [FILE] [--sheet NAME] [--coefficients FILE]
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/analyzer"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Validate the configuration and check ledger headers",
	Long: `The validate command loads the main configuration and the coefficient
tables and reports any problem with them. A given ledger is opened and its
headers are resolved against the configured column names.

The command exits with an error if the configuration is invalid or the ledger
lacks a required column.`,

	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runValidate(path)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&sheet, "sheet", "", "Workbook sheet to read (default: first sheet)")
	validateCmd.Flags().StringVar(&coefficientsFile, "coefficients", "", "Coefficient tables YAML (default: coefficients_file or built-in)")
}

// runValidate checks the configuration and, if path is set, the ledger.
func runValidate(ledger string) error {
	path := mainConfig.CoefficientsFile
	if coefficientsFile != "" {
		path = coefficientsFile
	}

	coef, err := loadCoefficients(path)
	if err != nil {
		return err
	}

	fmt.Println("Configuration OK")
	fmt.Printf("  Output:          %s (%s)\n", mainConfig.OutputDir, mainConfig.OutputFormat)
	fmt.Printf("  Green keywords:  %d\n", len(coef.GreenKeywords))
	fmt.Printf("  Savings table:   %d\n", len(coef.Savings))
	fmt.Printf("  Baseline table:  %d\n", len(coef.BaseEmission))
	fmt.Printf("  Match policy:    %s\n", coef.MatchPolicy)

	if ledger == "" {
		return nil
	}

	insp, err := analyzer.Inspect(ledger, mainConfig, sheet)
	if err != nil {
		return err
	}

	mark := "✓"
	if insp.SchemaError != nil {
		mark = "✗"
	}

	fmt.Printf("\n%s %s\n", mark, ledger)
	if len(insp.Sheets) > 0 {
		fmt.Printf("  Sheets:     %s\n", strings.Join(insp.Sheets, ", "))
		fmt.Printf("  Sheet:      %s\n", insp.Sheet)
	}
	fmt.Printf("  Rows:       %d\n", insp.Rows)
	fmt.Printf("  Item:       %s\n", orMissing(insp.Columns.Item))
	fmt.Printf("  Price:      %s\n", orMissing(insp.Columns.Price))
	fmt.Printf("  Quantity:   %s\n", orDefault(insp.Columns.Quantity, "(absent, 1 per row)"))
	fmt.Printf("  Emission:   %s\n", orDefault(insp.Columns.Emission, "(absent)"))
	fmt.Printf("  Accounting: %s\n", insp.Mode)

	return insp.SchemaError
}

func orMissing(s string) string {
	return orDefault(s, "(missing)")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
