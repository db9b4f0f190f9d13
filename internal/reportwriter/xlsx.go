package reportwriter

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/analysis"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSummary    = "Summary"
	SheetEcoItems   = "Eco Items"
	SheetComparison = "Cost Comparison"
	SheetTopSavings = "Top Savings"
	SheetCategories = "Categories"
	SheetRows       = "Rows"
	SheetWarnings   = "Warnings"
)

// sheetWriter writes header and data rows to one sheet, one row at a time.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
}

// newSheet creates a sheet with a bold header row.
func newSheet(f *excelize.File, sheet string, header []any, headerStyle int) (*sheetWriter, error) {
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	w := &sheetWriter{f: f, sheet: sheet, next: 1}
	if err := w.row(header...); err != nil {
		return nil, err
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style sheet %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return nil, err
	}
	return w, nil
}

// row appends one row of values.
func (w *sheetWriter) row(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", w.sheet, w.next, err)
	}
	w.next++
	return nil
}

// renderXLSX builds the report workbook.
//
// WORKBOOK LAYOUT:
//   - Summary: one metric per row
//   - Eco Items, Cost Comparison, Top Savings, Categories: one table each
//   - Categories also carries a pie chart of spending by item
//   - Rows and Warnings: only when present in the report
func renderXLSX(report *analysis.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, report, headerStyle); err != nil {
		return nil, err
	}

	eco, err := newSheet(f, SheetEcoItems, []any{"Item"}, headerStyle)
	if err != nil {
		return nil, err
	}
	for _, item := range report.EcoItems {
		if err := eco.row(item); err != nil {
			return nil, err
		}
	}

	if err := writeBucketSheet(f, SheetComparison, report.CostComparison, headerStyle); err != nil {
		return nil, err
	}

	top, err := newSheet(f, SheetTopSavings, []any{"Item", "CO2 savings (kg)", "Quantity"}, headerStyle)
	if err != nil {
		return nil, err
	}
	for _, s := range report.TopSavings {
		if err := top.row(s.Item, s.SavingsKg, s.Quantity); err != nil {
			return nil, err
		}
	}

	if err := writeBucketSheet(f, SheetCategories, report.Categories, headerStyle); err != nil {
		return nil, err
	}
	if len(report.Categories) > 0 {
		if err := addCategoryChart(f, len(report.Categories)); err != nil {
			return nil, err
		}
	}

	if len(report.Rows) > 0 {
		if err := writeRows(f, report.Rows, headerStyle); err != nil {
			return nil, err
		}
	}

	if len(report.Warnings) > 0 {
		warn, err := newSheet(f, SheetWarnings, []any{"Row", "Field", "Value", "Message"}, headerStyle)
		if err != nil {
			return nil, err
		}
		for _, issue := range report.Warnings {
			if err := warn.row(issue.Row, issue.Field, issue.Value, issue.Message); err != nil {
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSummary fills the summary sheet.
func writeSummary(f *excelize.File, report *analysis.Report, headerStyle int) error {
	m := report.Metrics
	w := &sheetWriter{f: f, sheet: SheetSummary, next: 1}

	generated := ""
	if !report.GeneratedAt.IsZero() {
		generated = report.GeneratedAt.Format(time.RFC3339)
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Source", report.Source},
		{"Sheet", report.Sheet},
		{"Run ID", report.RunID},
		{"Generated at", generated},
		{"Accounting mode", m.Mode.String()},
		{"Rows", m.RowCount},
		{"Eco rows", m.EcoRowCount},
		{"Total spend", m.GrandTotalCost.InexactFloat64()},
		{"Eco-friendly spend", m.EcoTotalCost.InexactFloat64()},
		{"Eco ratio (%)", m.EcoRatio},
		{"Baseline CO2 (kg)", m.TotalBaselineKg},
		{"Actual CO2 (kg)", m.TotalActualKg},
		{"CO2 savings (kg)", m.TotalSavingsKg},
		{"Car km equivalent", m.CarKmEquivalent},
	}
	for _, r := range rows {
		if err := w.row(r...); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(SheetSummary, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	return f.SetColWidth(SheetSummary, "A", "B", 28)
}

// writeBucketSheet writes label, cost and share columns.
func writeBucketSheet(f *excelize.File, sheet string, buckets []analysis.Bucket, headerStyle int) error {
	w, err := newSheet(f, sheet, []any{"Label", "Cost", "Share (%)"}, headerStyle)
	if err != nil {
		return err
	}
	for _, bucket := range buckets {
		if err := w.row(bucket.Label, bucket.Cost.InexactFloat64(), bucket.Share); err != nil {
			return err
		}
	}
	return nil
}

// addCategoryChart adds a pie chart of the Categories sheet next to its table.
func addCategoryChart(f *excelize.File, n int) error {
	last := n + 1
	return f.AddChart(SheetCategories, "E2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", SheetCategories),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", SheetCategories, last),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", SheetCategories, last),
		}},
		Title: []excelize.RichTextRun{{Text: "Spending by item"}},
	})
}

// writeRows writes the data preview sheet.
func writeRows(f *excelize.File, rows []analysis.TransactionRow, headerStyle int) error {
	w, err := newSheet(f, SheetRows, []any{
		"Source row", "Item", "Unit price", "Quantity", "Eco", "Total cost",
		"CO2 baseline (kg)", "CO2 actual (kg)", "CO2 savings (kg)",
	}, headerStyle)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.row(
			row.SourceRow, row.ItemName, row.UnitPrice.InexactFloat64(), row.Quantity, row.IsEco,
			row.TotalCost.InexactFloat64(), row.CO2BaselineKg, row.CO2ActualKg, row.CO2SavingsKg,
		); err != nil {
			return err
		}
	}
	return nil
}
