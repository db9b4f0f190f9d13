// =============================================================================
// Eco-Consumption Analyzer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration files.
// It handles both the main application configuration and the coefficient
// tables that drive classification and CO2 estimation.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings
//   2. Coefficients (coefficients.yaml): Keyword lists and CO2 coefficients
//
// Both files are optional. When a file is not given, built-in defaults apply.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the main configuration file looked up when the
// --config flag is not set explicitly.
const DefaultConfigPath = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is the directory where generated reports are placed.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// CoefficientsFile is an optional path to a coefficients YAML file.
	// When empty, the built-in coefficient tables are used.
	CoefficientsFile string `yaml:"coefficients_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log encoding.
	// Valid values: "console", "json"
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// MetricsFile is an optional path where run metrics are written in the
	// Prometheus text exposition format after each run.
	MetricsFile string `yaml:"metrics_file"`

	// PushgatewayURL is an optional Prometheus Pushgateway base URL, e.g.
	// "http://pushgateway:9091". Run metrics are pushed there after each run.
	PushgatewayURL string `yaml:"pushgateway_url"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is the default report format.
	// Valid values: "text", "json", "yaml", "xml", "xlsx"
	// Default: "text"
	OutputFormat string `yaml:"output_format"`

	// OutputFileFormat defines the report file name (without extension).
	// Placeholders:
	//   {uuid}      - The run ID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {original}  - Input file name without extension
	//   {sheet}     - Selected sheet name
	// Default: "{original}_{timestamp}_{uuid}"
	OutputFileFormat string `yaml:"output_file_format"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Columns lists the accepted header names for each logical field.
	Columns ColumnAliases `yaml:"columns"`

	// CSVSettings contains settings for parsing CSV input.
	CSVSettings CSVSettings `yaml:"csv_settings"`
}

// ColumnAliases lists, per logical field, every header name accepted for it.
// Header matching is case-insensitive and ignores surrounding whitespace.
type ColumnAliases struct {
	// Item is the purchase item name column (required).
	Item []string `yaml:"item"`

	// Price is the unit price column (required).
	Price []string `yaml:"price"`

	// Quantity is the quantity column (optional).
	Quantity []string `yaml:"quantity"`

	// Emission is the recorded carbon emission column in kg (optional).
	// Its presence switches the run to measured accounting.
	Emission []string `yaml:"emission"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab), ";" (semicolon)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the CSV file.
	// Supported: "UTF-8", "UTF-16", "EUC-KR", "CP949", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// DefaultMainConfig returns a MainConfig with every default applied.
func DefaultMainConfig() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "text"
	}
	if config.OutputFileFormat == "" {
		config.OutputFileFormat = "{original}_{timestamp}_{uuid}"
	}

	// Column alias defaults: the Korean headers of the household ledger
	// template first, then their English equivalents.
	if len(config.Columns.Item) == 0 {
		config.Columns.Item = []string{"구매 품목", "purchase item"}
	}
	if len(config.Columns.Price) == 0 {
		config.Columns.Price = []string{"금액", "amount"}
	}
	if len(config.Columns.Quantity) == 0 {
		config.Columns.Quantity = []string{"수량", "quantity"}
	}
	if len(config.Columns.Emission) == 0 {
		config.Columns.Emission = []string{"탄소 배출량(kg)", "carbon emission (kg)"}
	}

	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}
}

// Validate checks a configuration assembled in code or overridden by flags.
func (c *MainConfig) Validate() error {
	return validateMainConfig(c)
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	switch strings.ToLower(config.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", config.LogFormat)
	}

	if !IsOutputFormat(config.OutputFormat) {
		return fmt.Errorf("unknown output_format %q", config.OutputFormat)
	}

	return nil
}

// OutputFormats lists every supported report format.
var OutputFormats = []string{"text", "json", "yaml", "xml", "xlsx"}

// IsOutputFormat reports whether format names a supported report format.
func IsOutputFormat(format string) bool {
	for _, f := range OutputFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
