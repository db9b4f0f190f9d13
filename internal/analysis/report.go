package analysis

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/validation"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REPORT CONSTANTS
// =============================================================================

const (
	// MaxEcoItems caps the eco item list.
	MaxEcoItems = 10

	// MaxTopSavings caps the savings ranking.
	MaxTopSavings = 10

	// MaxCategories is the number of category buckets above which the
	// smallest ones are collapsed into the "other" bucket.
	MaxCategories = 10

	// Bucket labels of the cost comparison.
	EcoLabel    = "eco"
	NonEcoLabel = "non-eco"
)

// =============================================================================
// REPORT STRUCTURES
// =============================================================================

// Metrics is the headline figures of a run.
type Metrics struct {
	Mode            Mode            `json:"mode" yaml:"mode" xml:"mode"`
	RowCount        int             `json:"row_count" yaml:"row_count" xml:"row_count"`
	EcoRowCount     int             `json:"eco_row_count" yaml:"eco_row_count" xml:"eco_row_count"`
	GrandTotalCost  decimal.Decimal `json:"grand_total_cost" yaml:"grand_total_cost" xml:"grand_total_cost"`
	EcoTotalCost    decimal.Decimal `json:"eco_total_cost" yaml:"eco_total_cost" xml:"eco_total_cost"`
	EcoRatio        float64         `json:"eco_ratio" yaml:"eco_ratio" xml:"eco_ratio"`
	TotalBaselineKg float64         `json:"total_baseline_kg" yaml:"total_baseline_kg" xml:"total_baseline_kg"`
	TotalActualKg   float64         `json:"total_actual_kg" yaml:"total_actual_kg" xml:"total_actual_kg"`
	TotalSavingsKg  float64         `json:"total_savings_kg" yaml:"total_savings_kg" xml:"total_savings_kg"`
	CarKmEquivalent float64         `json:"car_km_equivalent" yaml:"car_km_equivalent" xml:"car_km_equivalent"`
}

// Bucket is a labelled amount of spend with its share of the grand total.
type Bucket struct {
	Label string          `json:"label" yaml:"label" xml:"label,attr"`
	Cost  decimal.Decimal `json:"cost" yaml:"cost" xml:"cost"`
	Share float64         `json:"share" yaml:"share" xml:"share"`
}

// ItemSavings is the CO2 saved by one item group.
type ItemSavings struct {
	Item      string  `json:"item" yaml:"item" xml:"item,attr"`
	SavingsKg float64 `json:"savings_kg" yaml:"savings_kg" xml:"savings_kg"`
	Quantity  int64   `json:"quantity" yaml:"quantity" xml:"quantity"`
}

// Report is the result of an analysis run.
type Report struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"eco_report"`

	// RunID and GeneratedAt identify a written report. They are set by the
	// caller that writes the report and are zero in a bare pipeline run.
	RunID       string    `json:"run_id,omitempty" yaml:"run_id,omitempty" xml:"run_id,attr,omitempty"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at" xml:"generated_at,attr"`

	Source string `json:"source" yaml:"source" xml:"source,attr"`
	Sheet  string `json:"sheet,omitempty" yaml:"sheet,omitempty" xml:"sheet,attr,omitempty"`

	Metrics        Metrics            `json:"metrics" yaml:"metrics" xml:"metrics"`
	EcoItems       []string           `json:"eco_items" yaml:"eco_items" xml:"eco_items>item"`
	CostComparison []Bucket           `json:"cost_comparison" yaml:"cost_comparison" xml:"cost_comparison>bucket"`
	// TopSavings ranks item groups that saved CO2. Groups whose savings are
	// zero or negative are left out, so the list may be shorter than
	// MaxTopSavings or empty.
	TopSavings     []ItemSavings      `json:"top_savings" yaml:"top_savings" xml:"top_savings>group"`
	Categories     []Bucket           `json:"categories" yaml:"categories" xml:"categories>bucket"`
	Rows           []TransactionRow   `json:"rows,omitempty" yaml:"rows,omitempty" xml:"rows>row,omitempty"`
	Warnings       []validation.Issue `json:"warnings,omitempty" yaml:"warnings,omitempty" xml:"warnings>issue,omitempty"`
}

// =============================================================================
// ITEM GROUPS
// =============================================================================

// itemGroup aggregates all rows sharing an item name.
type itemGroup struct {
	name      string
	cost      decimal.Decimal
	savingsKg float64
	quantity  int64
}

// groupByItem groups rows by item name. Groups are returned in ascending
// item name order, which is the tie-break order of every ranking.
func groupByItem(rows []TransactionRow) []itemGroup {
	index := make(map[string]int)
	var groups []itemGroup

	for i := range rows {
		row := &rows[i]
		idx, ok := index[row.ItemName]
		if !ok {
			idx = len(groups)
			index[row.ItemName] = idx
			groups = append(groups, itemGroup{name: row.ItemName, cost: decimal.Zero})
		}
		g := &groups[idx]
		g.cost = g.cost.Add(row.TotalCost)
		g.savingsKg += row.CO2SavingsKg
		g.quantity += row.Quantity
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// AssembleReport builds the report from fully processed rows.
//
// PARAMETERS:
//   - rows: Rows after classification, cost aggregation and estimation.
//   - costs: The cost aggregates.
//   - emissions: The CO2 aggregates.
//   - coef: The coefficients of the run (for the "other" label).
//
// RETURNS:
//   - The report, without rows, warnings or identity fields.
func AssembleReport(rows []TransactionRow, costs CostSummary, emissions EmissionTotals, coef config.Coefficients) *Report {
	report := &Report{
		Metrics: Metrics{
			Mode:            emissions.Mode,
			RowCount:        len(rows),
			GrandTotalCost:  costs.GrandTotal,
			EcoTotalCost:    costs.EcoTotal,
			EcoRatio:        costs.EcoRatio,
			TotalBaselineKg: emissions.BaselineKg,
			TotalActualKg:   emissions.ActualKg,
			TotalSavingsKg:  emissions.SavingsKg,
			CarKmEquivalent: emissions.CarKm,
		},
		EcoItems: ecoItems(rows),
		CostComparison: []Bucket{
			{Label: EcoLabel, Cost: costs.EcoTotal, Share: percentOf(costs.EcoTotal, costs.GrandTotal)},
			{Label: NonEcoLabel, Cost: costs.NonEcoTotal(), Share: percentOf(costs.NonEcoTotal(), costs.GrandTotal)},
		},
	}

	for i := range rows {
		if rows[i].IsEco {
			report.Metrics.EcoRowCount++
		}
	}

	groups := groupByItem(rows)
	report.TopSavings = topSavings(groups)
	report.Categories = categories(groups, costs.GrandTotal, coef.OtherLabel)

	return report
}

// ecoItems lists distinct eco item names in first-appearance order.
func ecoItems(rows []TransactionRow) []string {
	seen := make(map[string]bool)
	items := []string{}
	for i := range rows {
		if len(items) == MaxEcoItems {
			break
		}
		name := rows[i].ItemName
		if rows[i].IsEco && !seen[name] {
			seen[name] = true
			items = append(items, name)
		}
	}
	return items
}

// topSavings ranks groups with positive savings, largest first. Zero and
// negative savings (measured rows above their baseline) are dropped.
func topSavings(groups []itemGroup) []ItemSavings {
	ranked := []ItemSavings{}
	for _, g := range groups {
		if g.savingsKg > 0 {
			ranked = append(ranked, ItemSavings{Item: g.name, SavingsKg: g.savingsKg, Quantity: g.quantity})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].SavingsKg > ranked[j].SavingsKg })
	if len(ranked) > MaxTopSavings {
		ranked = ranked[:MaxTopSavings]
	}
	return ranked
}

// categories breaks spend down by item group, largest first. Beyond
// MaxCategories groups the tail is collapsed into one bucket labelled
// otherLabel, which is omitted when its sum is zero. If a kept group is
// itself named otherLabel, the bucket label gets a numeric suffix.
func categories(groups []itemGroup, grandTotal decimal.Decimal, otherLabel string) []Bucket {
	sorted := make([]itemGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].cost.GreaterThan(sorted[j].cost) })

	head := sorted
	var tail []itemGroup
	if len(sorted) > MaxCategories {
		head = sorted[:MaxCategories-1]
		tail = sorted[MaxCategories-1:]
	}

	buckets := make([]Bucket, 0, len(head)+1)
	for _, g := range head {
		buckets = append(buckets, Bucket{Label: g.name, Cost: g.cost, Share: percentOf(g.cost, grandTotal)})
	}

	other := decimal.Zero
	for _, g := range tail {
		other = other.Add(g.cost)
	}
	if !other.IsZero() {
		label := uniqueLabel(otherLabel, head)
		buckets = append(buckets, Bucket{Label: label, Cost: other, Share: percentOf(other, grandTotal)})
	}

	return buckets
}

// uniqueLabel returns label, or label suffixed " (2)", " (3)", ... when a
// group of head already uses that name.
func uniqueLabel(label string, head []itemGroup) string {
	taken := make(map[string]bool, len(head))
	for _, g := range head {
		taken[g.name] = true
	}

	candidate := label
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%d)", label, n)
	}
	return candidate
}
