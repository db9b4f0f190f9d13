package analysis

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
)

// Stage names reported to a StageHook.
const (
	StageNormalize = "normalize"
	StageClassify  = "classify"
	StageCost      = "cost"
	StageEmissions = "emissions"
	StageReport    = "report"
)

// StageHook is called after each pipeline stage with its duration.
type StageHook func(stage string, elapsed time.Duration)

// Pipeline runs the analysis stages over a table.
type Pipeline struct {
	// Coefficients are the keyword tables of the run.
	Coefficients config.Coefficients

	// OnStage is optional.
	OnStage StageHook
}

// Run analyzes a table with the given coefficients.
func Run(table *types.Table, cols types.Columns, coef config.Coefficients) (*Report, error) {
	p := &Pipeline{Coefficients: coef}
	return p.Run(table, cols)
}

// Run executes every stage in order and assembles the report.
//
// PARAMETERS:
//   - table: The loaded table. It is not modified.
//   - cols: The resolved columns; item and price are required.
//
// RETURNS:
//   - The report, including the normalized rows and data quality warnings.
//   - A *types.SchemaError if a required column is not set.
//   - An error if the coefficients are invalid.
func (p *Pipeline) Run(table *types.Table, cols types.Columns) (*Report, error) {
	var missing []string
	if cols.Item == "" {
		missing = append(missing, "item")
	}
	if cols.Price == "" {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return nil, &types.SchemaError{Source: table.Source, Missing: missing}
	}

	if err := p.Coefficients.Validate(); err != nil {
		return nil, fmt.Errorf("invalid coefficients: %w", err)
	}

	start := time.Now()
	rows, mode, issues := Normalize(table, cols)
	p.mark(StageNormalize, &start)

	NewClassifier(p.Coefficients.GreenKeywords).Classify(rows)
	p.mark(StageClassify, &start)

	costs := AggregateCosts(rows)
	p.mark(StageCost, &start)

	emissions := EstimateEmissions(rows, mode, p.Coefficients)
	p.mark(StageEmissions, &start)

	report := AssembleReport(rows, costs, emissions, p.Coefficients)
	report.Source = table.Source
	report.Sheet = table.Sheet
	report.Rows = rows
	report.Warnings = issues
	p.mark(StageReport, &start)

	return report, nil
}

// mark reports the time since *start and resets it.
func (p *Pipeline) mark(stage string, start *time.Time) {
	if p.OnStage == nil {
		return
	}
	now := time.Now()
	p.OnStage(stage, now.Sub(*start))
	*start = now
}
