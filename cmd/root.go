// =============================================================================
// Eco-Consumption Analyzer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'analyze', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ecoreport)
//   ├── analyzeCmd (ecoreport analyze)
//   ├── validateCmd (ecoreport validate)
//   ├── coefficientsCmd (ecoreport coefficients)
//   └── versionCmd (ecoreport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Loading the main configuration before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logFormat overrides the log_format setting when set.
var logFormat string

// mainConfig is the configuration loaded by the root command.
var mainConfig *config.MainConfig

// logger is the process logger, built from the configuration and flags.
var logger zerolog.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ecoreport",
	Short: "Eco-Consumption Analyzer - CO2 and spending report for purchase ledgers",
	Long: `Eco-Consumption Analyzer reads a household or office purchase ledger
(xlsx or csv), classifies purchases as eco-friendly by keyword, and reports
spending together with the CO2 those purchases saved.

Key Features:
  - Korean and English ledger headers out of the box
  - Estimated accounting from keyword coefficients, or measured accounting
    from a recorded emission column
  - Text, JSON, YAML, XML and XLSX reports
  - Data quality warnings for every cell that had to be coerced
  - Prometheus metrics as a textfile or pushed to a Pushgateway

Example Usage:
  ecoreport analyze ledger.xlsx                # Write a text report to ./output
  ecoreport analyze ledger.xlsx --stdout -f json
  ecoreport analyze ledger.csv --dry-run -v    # Analyze and log without writing
  ecoreport validate ledger.xlsx               # Check headers without analyzing`,

	SilenceUsage: true,

	// PersistentPreRunE loads the configuration and sets up logging for
	// every subcommand.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigPath,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Log encoding: console or json (overrides log_format)",
	)
}

// initConfig loads the main configuration and builds the logger.
//
// A missing config.yaml is not an error unless --config was given
// explicitly; the built-in defaults apply instead.
func initConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadMainConfig(cfgFile)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.DefaultMainConfig()
	default:
		return fmt.Errorf("failed to load main config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	mainConfig = cfg
	logger = log
	return nil
}

// loadCoefficients returns the coefficient tables from path, or the built-in
// tables when path is empty.
func loadCoefficients(path string) (config.Coefficients, error) {
	coef, err := config.LoadCoefficients(path)
	if err != nil {
		return config.Coefficients{}, fmt.Errorf("failed to load coefficients: %w", err)
	}
	return coef, nil
}
