package analysis

import (
	"github.com/shopspring/decimal"
)

// CostSummary holds the spend aggregates of a run.
type CostSummary struct {
	// GrandTotal is the sum of all row totals.
	GrandTotal decimal.Decimal

	// EcoTotal is the sum of row totals over eco rows.
	EcoTotal decimal.Decimal

	// EcoRatio is EcoTotal / GrandTotal * 100, or 0 when GrandTotal is 0.
	EcoRatio float64
}

// NonEcoTotal is the spend on rows that are not eco.
func (s CostSummary) NonEcoTotal() decimal.Decimal {
	return s.GrandTotal.Sub(s.EcoTotal)
}

// AggregateCosts sets TotalCost on every row and sums the totals.
// Rows must already be classified.
func AggregateCosts(rows []TransactionRow) CostSummary {
	summary := CostSummary{
		GrandTotal: decimal.Zero,
		EcoTotal:   decimal.Zero,
	}

	for i := range rows {
		row := &rows[i]
		row.TotalCost = row.UnitPrice.Mul(decimal.NewFromInt(row.Quantity))

		summary.GrandTotal = summary.GrandTotal.Add(row.TotalCost)
		if row.IsEco {
			summary.EcoTotal = summary.EcoTotal.Add(row.TotalCost)
		}
	}

	summary.EcoRatio = percentOf(summary.EcoTotal, summary.GrandTotal)
	return summary
}

// percentOf returns part / whole * 100, or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
