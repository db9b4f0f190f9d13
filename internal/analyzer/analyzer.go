// =============================================================================
// Eco-Consumption Analyzer - Analyzer Module
// =============================================================================
//
// This module orchestrates the analysis of a single ledger file, from loading
// the document to writing the report.
//
// ANALYSIS PIPELINE:
//   1. Load the ledger (xlsx or csv) into a table
//   2. Resolve the item, price, quantity and emission columns
//   3. Run the analysis pipeline (normalize, classify, cost, emissions, report)
//   4. Render the report in the requested format
//   5. Write the report file (or the configured writer)
//   6. Record run metrics
//
// Files are analyzed one at a time. An Analyzer holds no state between runs
// apart from the metrics recorder, which is safe for concurrent use.
//
// =============================================================================

package analyzer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/analysis"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/loader"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/metrics"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/reportwriter"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/validation"
	"github.com/ginjaninja78/eco-consumption-analyzer/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of analyzing a single file.
type Result struct {
	// FilePath is the path to the input file that was analyzed.
	FilePath string

	// OutputFile is the path to the written report.
	// This is empty if analysis failed, in dry-run mode, or when the report
	// was written to Options.Output.
	OutputFile string

	// Success indicates whether the analysis was successful.
	Success bool

	// Error contains the error if analysis failed.
	Error error

	// Report is the analysis report. Nil if analysis failed.
	Report *analysis.Report

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of ledger rows analyzed.
	RowsProcessed int

	// EcoRows is the number of rows classified as eco-friendly.
	EcoRows int

	// Warnings is the number of data quality warnings.
	Warnings int

	// ProcessingTime is the time taken to analyze the file.
	ProcessingTime time.Duration
}

// =============================================================================
// ANALYZER STRUCTURE
// =============================================================================

// Options controls a single analysis.
type Options struct {
	// Sheet selects the workbook sheet. Empty selects the first sheet.
	Sheet string

	// Format is the report format. Empty uses the configured output format.
	Format string

	// IncludeRows adds the normalized rows to the report.
	IncludeRows bool

	// DryRun renders the report without writing it anywhere.
	DryRun bool

	// Output, when set, receives the report instead of a file in the
	// output directory.
	Output io.Writer
}

// Analyzer handles the analysis of a single ledger file.
type Analyzer struct {
	// filePath is the path to the input ledger.
	filePath string

	// mainConfig is the main application configuration.
	mainConfig *config.MainConfig

	// coefficients are the keyword tables of the run.
	coefficients config.Coefficients

	// opts are the per-run options.
	opts Options

	// logger receives progress messages.
	logger Logger

	// metrics records run metrics. May be nil.
	metrics *metrics.Recorder

	// files names and writes report files.
	files *utils.FileManager

	// now returns the report generation time.
	now func() time.Time
}

// Logger is an interface for logging.
// logging.Printf adapts a zerolog.Logger to it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Analyzer instance.
//
// PARAMETERS:
//   - filePath: The path to the input ledger.
//   - mainConfig: The main application configuration.
//   - coefficients: The keyword tables of the run.
//   - opts: The per-run options.
//
// RETURNS:
//   - A new Analyzer instance.
func New(filePath string, mainConfig *config.MainConfig, coefficients config.Coefficients, opts Options) *Analyzer {
	return &Analyzer{
		filePath:     filePath,
		mainConfig:   mainConfig,
		coefficients: coefficients,
		opts:         opts,
		logger:       &defaultLogger{w: os.Stderr},
		files:        utils.NewFileManager(mainConfig.OutputDir, mainConfig.OutputFileFormat),
		now:          time.Now,
	}
}

// WithLogger replaces the default logger.
func (a *Analyzer) WithLogger(logger Logger) *Analyzer {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithMetrics attaches a metrics recorder.
func (a *Analyzer) WithMetrics(recorder *metrics.Recorder) *Analyzer {
	a.metrics = recorder
	return a
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the analysis pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the analysis.
func (a *Analyzer) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: a.filePath,
		Success:  false,
	}

	fail := func(err error) Result {
		a.metrics.RecordFailure()
		a.logger.Error("Analysis of %s failed: %v", a.filePath, err)
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	format := a.opts.Format
	if format == "" {
		format = a.mainConfig.OutputFormat
	}
	if !config.IsOutputFormat(format) {
		return fail(fmt.Errorf("unsupported report format %q", format))
	}

	// =========================================================================
	// STEP 1: LOAD LEDGER
	// =========================================================================

	a.logger.Info("Analyzing file: %s", a.filePath)

	table, err := loader.Load(a.filePath, loader.Options{
		Sheet: a.opts.Sheet,
		CSV:   a.mainConfig.CSVSettings,
	})
	if err != nil {
		return fail(err)
	}

	a.logger.Debug("Loaded %d rows from %s", len(table.Rows), a.filePath)

	// =========================================================================
	// STEP 2: RESOLVE COLUMNS
	// =========================================================================
	// Missing item or price columns are fatal. Quantity and emission are
	// optional; a present emission column switches to measured accounting.

	cols := validation.ResolveColumns(table, a.mainConfig.Columns)
	if err := validation.RequireColumns(table, cols, a.mainConfig.Columns); err != nil {
		return fail(err)
	}

	a.logger.Debug("Resolved columns: item=%q price=%q quantity=%q emission=%q",
		cols.Item, cols.Price, cols.Quantity, cols.Emission)

	// =========================================================================
	// STEP 3: RUN ANALYSIS
	// =========================================================================

	pipeline := &analysis.Pipeline{
		Coefficients: a.coefficients,
		OnStage: func(stage string, elapsed time.Duration) {
			a.metrics.ObserveStage(stage, elapsed)
			a.logger.Debug("Stage %s took %s", stage, elapsed)
		},
	}

	report, err := pipeline.Run(table, cols)
	if err != nil {
		return fail(fmt.Errorf("failed to analyze: %w", err))
	}

	report.RunID = uuid.New().String()
	report.GeneratedAt = a.now()

	for i := range report.Warnings {
		a.logger.Warn("Data quality: %s", report.Warnings[i].Error())
	}

	result.Report = report
	result.Stats.RowsProcessed = report.Metrics.RowCount
	result.Stats.EcoRows = report.Metrics.EcoRowCount
	result.Stats.Warnings = len(report.Warnings)

	a.logger.Info("Analyzed %d rows (%d eco, %s accounting)",
		report.Metrics.RowCount, report.Metrics.EcoRowCount, report.Metrics.Mode)

	// =========================================================================
	// STEP 4: RENDER REPORT
	// =========================================================================

	renderOpts := reportwriter.DefaultOptions()
	renderOpts.Format = format
	renderOpts.IncludeRows = a.opts.IncludeRows

	data, err := reportwriter.Render(report, renderOpts)
	if err != nil {
		return fail(fmt.Errorf("failed to render report: %w", err))
	}

	// =========================================================================
	// STEP 5: WRITE REPORT
	// =========================================================================

	switch {
	case a.opts.DryRun:
		a.logger.Info("Dry run: report not written (%d bytes)", len(data))

	case a.opts.Output != nil:
		if _, err := a.opts.Output.Write(data); err != nil {
			return fail(fmt.Errorf("failed to write report: %w", err))
		}

	default:
		outputPath, err := a.writeOutput(data, format, report)
		if err != nil {
			return fail(fmt.Errorf("failed to write output: %w", err))
		}
		result.OutputFile = outputPath
		a.logger.Info("Wrote report to: %s", outputPath)
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	a.metrics.RecordSuccess(metrics.RunSummary{
		Rows:      report.Metrics.RowCount,
		EcoRows:   report.Metrics.EcoRowCount,
		Warnings:  len(report.Warnings),
		SavingsKg: report.Metrics.TotalSavingsKg,
		EcoRatio:  report.Metrics.EcoRatio,
	})

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// writeOutput writes the rendered report to the output directory.
//
// FILE NAMING:
//   The output file is named according to OutputFileFormat in the main
//   configuration; {uuid} is the run ID of the report.
func (a *Analyzer) writeOutput(data []byte, format string, report *analysis.Report) (string, error) {
	fileName := utils.GenerateOutputFileName(a.files.FileNameFormat, map[string]string{
		"original": utils.BaseNameWithoutExt(a.filePath),
		"sheet":    report.Sheet,
		"uuid":     report.RunID,
	}, reportwriter.Extension(format))

	return a.files.WriteOutputFile(fileName, data)
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// defaultLogger prints level-prefixed lines.
type defaultLogger struct {
	w io.Writer
}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	fmt.Fprintf(l.w, "[DEBUG] "+msg+"\n", args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	fmt.Fprintf(l.w, "[INFO] "+msg+"\n", args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	fmt.Fprintf(l.w, "[WARN] "+msg+"\n", args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(l.w, "[ERROR] "+msg+"\n", args...)
}
