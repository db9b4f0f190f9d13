package analysis

import (
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
)

// =============================================================================
// CO2 ESTIMATION
// =============================================================================
//
// Per row, in both modes:
//   savings  = quantity * savings coefficient of the matched keyword, only
//              for eco rows; 0 otherwise
//
// Measured mode:
//   actual   = recorded emission
//   baseline = actual + savings
//
// Estimated mode:
//   baseline = quantity * base emission of the matched keyword, or
//              quantity * default base emission when no keyword matches;
//              applied to every row, eco or not
//   actual   = baseline - savings
//
// The actual emission is not clamped: a savings coefficient larger than the
// baseline yields a negative actual emission.
//
// =============================================================================

// EmissionTotals holds the CO2 aggregates of a run.
type EmissionTotals struct {
	Mode       Mode
	BaselineKg float64
	ActualKg   float64
	SavingsKg  float64

	// CarKm is SavingsKg expressed as km of average car travel.
	CarKm float64
}

// EstimateEmissions sets the CO2 fields on every row and aggregates them.
// Rows must already be classified.
//
// In measured mode the baseline total is derived from the sums. In estimated
// mode the actual total is.
func EstimateEmissions(rows []TransactionRow, mode Mode, coef config.Coefficients) EmissionTotals {
	totals := EmissionTotals{Mode: mode}
	qty := func(row *TransactionRow) float64 { return float64(row.Quantity) }

	for i := range rows {
		row := &rows[i]

		row.CO2SavingsKg = 0
		row.SavingsKeyword = ""
		if row.IsEco {
			if entry, ok := ResolveKeyword(row.ItemName, coef.Savings, coef.MatchPolicy); ok {
				row.CO2SavingsKg = qty(row) * entry.KgPerUnit
				row.SavingsKeyword = entry.Keyword
			}
		}

		switch mode {
		case ModeMeasured:
			if row.RecordedEmissionKg != nil {
				row.CO2ActualKg = *row.RecordedEmissionKg
			}
			row.CO2BaselineKg = row.CO2ActualKg + row.CO2SavingsKg
			totals.ActualKg += row.CO2ActualKg

		default:
			row.BaselineKeyword = ""
			row.CO2BaselineKg = qty(row) * coef.DefaultBaseEmission
			if entry, ok := ResolveKeyword(row.ItemName, coef.BaseEmission, coef.MatchPolicy); ok {
				row.CO2BaselineKg = qty(row) * entry.KgPerUnit
				row.BaselineKeyword = entry.Keyword
			}
			row.CO2ActualKg = row.CO2BaselineKg - row.CO2SavingsKg
			totals.BaselineKg += row.CO2BaselineKg
		}

		totals.SavingsKg += row.CO2SavingsKg
	}

	if mode == ModeMeasured {
		totals.BaselineKg = totals.ActualKg + totals.SavingsKg
	} else {
		totals.ActualKg = totals.BaselineKg - totals.SavingsKg
	}

	totals.CarKm = CarKmEquivalent(totals.SavingsKg, coef.CarKgPerKm)
	return totals
}

// CarKmEquivalent converts kg of CO2 into km of average car travel.
// A non-positive factor yields 0.
func CarKmEquivalent(savingsKg, kgPerKm float64) float64 {
	if kgPerKm <= 0 {
		return 0
	}
	return savingsKg / kgPerKm
}
