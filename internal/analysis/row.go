// =============================================================================
// Eco-Consumption Analyzer - Analysis Pipeline
// =============================================================================
//
// This package contains the classification-and-estimation pipeline. It runs
// over a Table that has already been loaded and schema-checked:
//
//   1. Normalize  - typed parse of item name, unit price, quantity and the
//                   optional recorded emission (normalize.go)
//   2. Classify   - eco flag by green keyword containment (classify.go)
//   3. Cost       - per-row total cost and cost aggregates (cost.go)
//   4. Emissions  - CO2 savings, baseline and actual emission (emissions.go)
//   5. Report     - metrics, rankings and breakdowns (report.go)
//
// The pipeline is single-threaded and keeps no state between runs. The
// coefficient tables are passed in explicitly and never modified.
//
// =============================================================================

package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCOUNTING MODE
// =============================================================================

// Mode is the CO2 accounting mode of a run. It is decided once, from the
// presence of a recorded emission column, before any row is processed.
type Mode int

const (
	// ModeEstimated derives the baseline from the keyword emission table and
	// the actual emission by subtracting savings.
	ModeEstimated Mode = iota

	// ModeMeasured uses the recorded emission as the actual emission and
	// derives the baseline by adding savings.
	ModeMeasured
)

// String returns the accounting mode label.
func (m Mode) String() string {
	switch m {
	case ModeMeasured:
		return "measured"
	case ModeEstimated:
		return "estimated"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText renders the mode label in JSON, YAML and XML reports.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// =============================================================================
// TRANSACTION ROW
// =============================================================================

// TransactionRow is one purchase record after normalization. The derived
// fields are filled in place by the later pipeline stages.
type TransactionRow struct {
	// SourceRow is the document row number the record was read from.
	SourceRow int `json:"source_row" yaml:"source_row" xml:"source_row,attr"`

	// ItemName is the lower-cased item name; empty if the cell was blank.
	ItemName string `json:"item_name" yaml:"item_name" xml:"item_name"`

	// UnitPrice is the cleaned unit price.
	UnitPrice decimal.Decimal `json:"unit_price" yaml:"unit_price" xml:"unit_price"`

	// Quantity is the cleaned quantity; 1 when the column is absent.
	Quantity int64 `json:"quantity" yaml:"quantity" xml:"quantity"`

	// RecordedEmissionKg is the cleaned recorded emission. Nil unless the
	// run is in measured mode.
	RecordedEmissionKg *float64 `json:"recorded_emission_kg,omitempty" yaml:"recorded_emission_kg,omitempty" xml:"recorded_emission_kg,omitempty"`

	// IsEco is true iff ItemName contains a green keyword.
	IsEco bool `json:"is_eco" yaml:"is_eco" xml:"is_eco,attr"`

	// TotalCost is UnitPrice * Quantity.
	TotalCost decimal.Decimal `json:"total_cost" yaml:"total_cost" xml:"total_cost"`

	// CO2SavingsKg is the CO2 avoided by this purchase.
	CO2SavingsKg float64 `json:"co2_savings_kg" yaml:"co2_savings_kg" xml:"co2_savings_kg"`

	// CO2BaselineKg is the CO2 a conventional purchase would have emitted.
	CO2BaselineKg float64 `json:"co2_baseline_kg" yaml:"co2_baseline_kg" xml:"co2_baseline_kg"`

	// CO2ActualKg is the CO2 attributed to this purchase.
	// CO2ActualKg + CO2SavingsKg == CO2BaselineKg.
	CO2ActualKg float64 `json:"co2_actual_kg" yaml:"co2_actual_kg" xml:"co2_actual_kg"`

	// SavingsKeyword is the keyword that set CO2SavingsKg, if any.
	SavingsKeyword string `json:"savings_keyword,omitempty" yaml:"savings_keyword,omitempty" xml:"savings_keyword,omitempty"`

	// BaselineKeyword is the keyword that set CO2BaselineKg in estimated
	// mode, if any.
	BaselineKeyword string `json:"baseline_keyword,omitempty" yaml:"baseline_keyword,omitempty" xml:"baseline_keyword,omitempty"`
}
