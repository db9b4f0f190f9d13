// =============================================================================
// Eco-Consumption Analyzer - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, the main command of the tool. It
// runs the analysis pipeline over one ledger.
//
// COMMAND USAGE:
//   ecoreport analyze FILE [flags]
//   ecoreport analyze --file FILE [flags]
//
// FLAGS:
//   --file          : The ledger to analyze (same as the argument)
//   --sheet         : Workbook sheet to read (default: first sheet)
//   --format, -f    : Report format: text, json, yaml, xml, xlsx
//   --coefficients  : Coefficient tables YAML (overrides coefficients_file)
//   --output-dir    : Report directory (overrides output_dir)
//   --include-rows  : Add the normalized rows to the report
//   --stdout        : Write the report to stdout instead of a file
//   --dry-run       : Analyze without writing the report
//   --metrics-file  : Write Prometheus metrics to a textfile
//   --pushgateway   : Push Prometheus metrics to a Pushgateway
//
// PROCESSING PIPELINE:
//   1. Apply flag overrides to the configuration
//   2. Load the coefficient tables
//   3. Analyze the ledger
//   4. Print the result
//   5. Export metrics
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/analyzer"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/logging"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/metrics"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	filePath         string
	sheet            string
	reportFormat     string
	coefficientsFile string
	outputDir        string
	includeRows      bool
	toStdout         bool
	dryRun           bool
	metricsFile      string
	pushgatewayURL   string
)

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FILE]",
	Short: "Analyze a purchase ledger and write an eco-consumption report",
	Long: `The analyze command reads a ledger, classifies every purchase as
eco-friendly or not, totals the spending and the CO2 saved, and writes a
report.

A ledger needs an item column and a price column. A quantity column is
optional (default 1 per row). When a recorded emission column is present,
the report uses measured accounting instead of keyword estimates.

Cells that cannot be read as numbers are counted as 0 and listed as
warnings in the report; they never fail the run.`,

	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		path := filePath
		if len(args) == 1 {
			if path != "" && path != args[0] {
				return fmt.Errorf("both an argument and --file given")
			}
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no ledger given: pass a file as the argument or with --file")
		}
		return runAnalyze(path)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&filePath, "file", "", "Ledger file to analyze (xlsx or csv)")
	analyzeCmd.Flags().StringVar(&sheet, "sheet", "", "Workbook sheet to read (default: first sheet)")
	analyzeCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Report format: text, json, yaml, xml, xlsx (default: output_format)")
	analyzeCmd.Flags().StringVar(&coefficientsFile, "coefficients", "", "Coefficient tables YAML (default: coefficients_file or built-in)")
	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", "", "Report directory (default: output_dir)")
	analyzeCmd.Flags().BoolVar(&includeRows, "include-rows", false, "Include the normalized rows in the report")
	analyzeCmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the report to stdout instead of a file")
	analyzeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Analyze without writing the report")
	analyzeCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile (default: metrics_file)")
	analyzeCmd.Flags().StringVar(&pushgatewayURL, "pushgateway", "", "Push Prometheus metrics to this Pushgateway URL (default: pushgateway_url)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runAnalyze analyzes one ledger and exports the run metrics.
func runAnalyze(path string) error {
	// =========================================================================
	// STEP 1: APPLY FLAG OVERRIDES
	// =========================================================================

	cfg := *mainConfig
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if coefficientsFile != "" {
		cfg.CoefficientsFile = coefficientsFile
	}
	if metricsFile != "" {
		cfg.MetricsFile = metricsFile
	}
	if pushgatewayURL != "" {
		cfg.PushgatewayURL = pushgatewayURL
	}
	if reportFormat != "" && !config.IsOutputFormat(reportFormat) {
		return fmt.Errorf("unknown report format %q (valid: %v)", reportFormat, config.OutputFormats)
	}

	// =========================================================================
	// STEP 2: LOAD COEFFICIENTS
	// =========================================================================

	coef, err := loadCoefficients(cfg.CoefficientsFile)
	if err != nil {
		return err
	}
	if cfg.CoefficientsFile != "" {
		logger.Debug().Str("path", cfg.CoefficientsFile).Msg("Loaded coefficient tables")
	}

	recorder, err := metrics.New()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: ANALYZE
	// =========================================================================

	opts := analyzer.Options{
		Sheet:       sheet,
		Format:      reportFormat,
		IncludeRows: includeRows,
		DryRun:      dryRun,
	}
	if toStdout {
		opts.Output = os.Stdout
	}

	fileLogger := logger.With().Str("file", filepath.Base(path)).Logger()

	result := analyzer.New(path, &cfg, coef, opts).
		WithLogger(logging.NewPrintf(fileLogger)).
		WithMetrics(recorder).
		Run()

	// =========================================================================
	// STEP 4: PRINT RESULT
	// =========================================================================

	if result.Success && !toStdout {
		printResult(result)
	}

	logger.Info().
		Bool("success", result.Success).
		Int("rows", result.Stats.RowsProcessed).
		Int("warnings", result.Stats.Warnings).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("Analysis complete")

	// =========================================================================
	// STEP 5: EXPORT METRICS
	// =========================================================================

	if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Error().Err(err).Msg("Failed to write metrics")
	}
	if err := recorder.Push(cfg.PushgatewayURL, "ecoreport"); err != nil {
		logger.Error().Err(err).Msg("Failed to push metrics")
	}

	return result.Error
}

// printResult prints the headline figures of a successful run.
func printResult(result analyzer.Result) {
	m := result.Report.Metrics

	fmt.Printf("✓ %s\n", filepath.Base(result.FilePath))
	if result.OutputFile != "" {
		fmt.Printf("  Report:      %s\n", result.OutputFile)
	}
	fmt.Printf("  Rows:        %d (%d eco, %d warnings)\n", m.RowCount, m.EcoRowCount, result.Stats.Warnings)
	fmt.Printf("  Accounting:  %s\n", m.Mode)
	fmt.Printf("  Eco spend:   %s of %s (%.1f%%)\n", m.EcoTotalCost.StringFixed(0), m.GrandTotalCost.StringFixed(0), m.EcoRatio)
	fmt.Printf("  CO2 saved:   %.2f kg (%.1f km by car)\n", m.TotalSavingsKg, m.CarKmEquivalent)
}
