package reportwriter

import (
	"bytes"
	"time"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/analysis"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// renderText renders the human-readable summary with grouped digits.
func renderText(report *analysis.Report, opts Options) []byte {
	p := message.NewPrinter(language.English)

	var b bytes.Buffer
	m := report.Metrics

	b.WriteString("Eco-Consumption Report\n")
	b.WriteString("======================\n")
	source := report.Source
	if report.Sheet != "" {
		source += " (" + report.Sheet + ")"
	}
	p.Fprintf(&b, "%-22s %s\n", "Source:", source)
	if report.RunID != "" {
		p.Fprintf(&b, "%-22s %s\n", "Run ID:", report.RunID)
	}
	if !report.GeneratedAt.IsZero() {
		p.Fprintf(&b, "%-22s %s\n", "Generated:", report.GeneratedAt.Format(time.RFC3339))
	}
	p.Fprintf(&b, "%-22s %s\n", "Accounting:", m.Mode.String())

	b.WriteString("\nSPENDING\n")
	p.Fprintf(&b, "  %-20s %.2f\n", "Total spend:", m.GrandTotalCost.InexactFloat64())
	p.Fprintf(&b, "  %-20s %.2f (%.1f%%)\n", "Eco-friendly spend:", m.EcoTotalCost.InexactFloat64(), m.EcoRatio)
	p.Fprintf(&b, "  %-20s %d (%d eco)\n", "Rows:", m.RowCount, m.EcoRowCount)

	b.WriteString("\nCO2\n")
	p.Fprintf(&b, "  %-20s %.3f kg\n", "Baseline:", m.TotalBaselineKg)
	p.Fprintf(&b, "  %-20s %.3f kg\n", "Actual:", m.TotalActualKg)
	p.Fprintf(&b, "  %-20s %.3f kg (about %.1f km by car)\n", "Savings:", m.TotalSavingsKg, m.CarKmEquivalent)

	b.WriteString("\nECO-FRIENDLY ITEMS\n")
	if len(report.EcoItems) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, item := range report.EcoItems {
		p.Fprintf(&b, "  - %s\n", item)
	}

	b.WriteString("\nCOST COMPARISON\n")
	writeBuckets(&b, p, report.CostComparison)

	b.WriteString("\nTOP CO2 SAVINGS\n")
	if len(report.TopSavings) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, s := range report.TopSavings {
		p.Fprintf(&b, "  %2d. %-28s %.3f kg (qty %d)\n", i+1, s.Item, s.SavingsKg, s.Quantity)
	}

	b.WriteString("\nSPENDING BY ITEM\n")
	if len(report.Categories) == 0 {
		b.WriteString("  (none)\n")
	}
	writeBuckets(&b, p, report.Categories)

	if len(report.Rows) > 0 {
		b.WriteString("\nROWS\n")
		for _, row := range report.Rows {
			eco := " "
			if row.IsEco {
				eco = "*"
			}
			p.Fprintf(&b, "  %4d %s %-28s %.2f x %d = %.2f, CO2 %.3f/%.3f/%.3f kg\n",
				row.SourceRow, eco, row.ItemName,
				row.UnitPrice.InexactFloat64(), row.Quantity, row.TotalCost.InexactFloat64(),
				row.CO2BaselineKg, row.CO2ActualKg, row.CO2SavingsKg)
		}
	}

	b.WriteString("\n")
	b.WriteString(validation.FormatIssues(report.Warnings))
	if len(report.Warnings) == 0 {
		b.WriteString("\n")
	}

	return b.Bytes()
}

func writeBuckets(b *bytes.Buffer, p *message.Printer, buckets []analysis.Bucket) {
	for _, bucket := range buckets {
		p.Fprintf(b, "  %-28s %.2f (%.1f%%)\n", bucket.Label, bucket.Cost.InexactFloat64(), bucket.Share)
	}
}
