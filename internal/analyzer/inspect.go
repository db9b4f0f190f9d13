package analyzer

import (
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/analysis"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/loader"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/validation"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/xlsxparser"
)

// Inspection describes how a ledger would be read, without analyzing it.
type Inspection struct {
	// Source is the inspected file.
	Source string

	// Sheets lists the workbook sheets. Empty for CSV input.
	Sheets []string

	// Sheet is the sheet that would be analyzed.
	Sheet string

	// Headers are the cleaned column headers of that sheet.
	Headers []string

	// Rows is the number of non-empty data rows.
	Rows int

	// Columns are the resolved logical columns.
	Columns types.Columns

	// Mode is the accounting mode the columns select.
	Mode analysis.Mode

	// SchemaError is set when a required column is missing.
	SchemaError error
}

// Inspect loads a ledger and resolves its columns.
//
// RETURNS:
//   - The inspection. A missing required column is reported in
//     Inspection.SchemaError, not as an error.
//   - An error if the file cannot be read.
func Inspect(filePath string, mainConfig *config.MainConfig, sheet string) (*Inspection, error) {
	format, err := loader.DetectFormat(filePath)
	if err != nil {
		return nil, &types.IOError{Source: filePath, Op: "detect format", Err: err}
	}

	insp := &Inspection{Source: filePath}

	if format == loader.FormatXLSX {
		if insp.Sheets, err = xlsxparser.SheetNames(filePath); err != nil {
			return nil, err
		}
	}

	table, err := loader.Load(filePath, loader.Options{Sheet: sheet, CSV: mainConfig.CSVSettings})
	if err != nil {
		return nil, err
	}

	insp.Sheet = table.Sheet
	insp.Headers = table.Headers
	insp.Rows = len(table.Rows)
	insp.Columns = validation.ResolveColumns(table, mainConfig.Columns)
	insp.SchemaError = validation.RequireColumns(table, insp.Columns, mainConfig.Columns)

	insp.Mode = analysis.ModeEstimated
	if insp.Columns.Emission != "" {
		insp.Mode = analysis.ModeMeasured
	}

	return insp, nil
}
