package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/validation"
	"github.com/shopspring/decimal"
)

func ledger(headers []string, records ...[]string) *types.Table {
	all := append([][]string{headers}, records...)
	return types.TableFromRecords("ledger.xlsx", "Sheet1", all)
}

func TestCellText(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want string
	}{
		{"nil", nil, ""},
		{"string", "₩3,500", "₩3,500"},
		{"whole float", 2.0, "2"},
		{"fractional float", 0.25, "0.25"},
		{"large float", 1e21, "1000000000000000000000"},
		{"nan", math.NaN(), ""},
		{"int", 42, "42"},
		{"int64", int64(7), "7"},
		{"bool", true, "true"},
		{"decimal", decimal.RequireFromString("12.50"), "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellText(tt.cell); got != tt.want {
				t.Errorf("CellText(%v) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestCleanDecimal(t *testing.T) {
	tests := []struct {
		name       string
		cell       any
		want       string
		wantZeroed bool
	}{
		{"currency and separators", "₩3,500", "3500", false},
		{"korean unit suffix", "1,200원", "1200", false},
		{"fraction", "0.75 kg", "0.75", false},
		{"full-width digits", "３５００", "3500", false},
		{"full-width separators", "￦３，５００．５", "3500.5", false},
		{"numeric cell", 1500.0, "1500", false},
		{"blank", "", "0", false},
		{"whitespace only", "   ", "0", false},
		{"nil", nil, "0", false},
		{"no digits", "N/A", "0", true},
		{"several points", "1.2.3", "0", true},
		{"lone point", ".", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanDecimal(tt.cell)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CleanDecimal(%v) = %s, want %s", tt.cell, got, tt.want)
			}

			var cleanErr *CleanError
			zeroed := errors.As(err, &cleanErr) && cleanErr.Zeroed
			if zeroed != tt.wantZeroed {
				t.Errorf("CleanDecimal(%v) err = %v, want zeroed=%v", tt.cell, err, tt.wantZeroed)
			}
		})
	}
}

func TestCleanInteger(t *testing.T) {
	tests := []struct {
		name    string
		cell    any
		want    int64
		wantErr bool
	}{
		{"plain", "3", 3, false},
		{"with unit", "2개", 2, false},
		{"thousands separator", "1,000", 1000, false},
		{"full-width digits", "１２", 12, false},
		{"full-width decimal point dropped", "２．５", 25, true},
		{"numeric cell", 2.0, 2, false},
		{"blank", "", 0, false},
		{"no digits", "many", 0, true},
		{"decimal point dropped", "2.5", 25, true},
		{"overflow", "99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanInteger(tt.cell)
			if got != tt.want || (err != nil) != tt.wantErr {
				t.Errorf("CleanInteger(%v) = %d, %v; want %d, err=%v", tt.cell, got, err, tt.want, tt.wantErr)
			}
		})
	}
}

func TestNormalize_QuantityColumnAbsent(t *testing.T) {
	table := ledger([]string{"item", "price"},
		[]string{"Friendly Refillable Bottle", "₩3,500"},
		[]string{"plastic cup", "1000"},
	)

	rows, mode, issues := Normalize(table, types.Columns{Item: "item", Price: "price"})

	if mode != ModeEstimated {
		t.Errorf("mode = %v, want estimated", mode)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
	for _, row := range rows {
		if row.Quantity != 1 {
			t.Errorf("row %d quantity = %d, want 1", row.SourceRow, row.Quantity)
		}
		if row.RecordedEmissionKg != nil {
			t.Errorf("row %d has a recorded emission in estimated mode", row.SourceRow)
		}
	}
	if rows[0].ItemName != "friendly refillable bottle" {
		t.Errorf("item name = %q, want lower-cased", rows[0].ItemName)
	}
	if !rows[0].UnitPrice.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("unit price = %s, want 3500", rows[0].UnitPrice)
	}
}

func TestNormalize_BlankQuantityIsZero(t *testing.T) {
	table := ledger([]string{"item", "price", "qty"},
		[]string{"eco bag", "500", ""},
		[]string{"eco bag", "500", "2"},
	)

	rows, _, issues := Normalize(table, types.Columns{Item: "item", Price: "price", Quantity: "qty"})

	if rows[0].Quantity != 0 || rows[1].Quantity != 2 {
		t.Errorf("quantities = %d, %d; want 0, 2", rows[0].Quantity, rows[1].Quantity)
	}
	if len(issues) != 0 {
		t.Errorf("a blank cell must not produce a warning: %v", issues)
	}
}

func TestNormalize_Warnings(t *testing.T) {
	table := ledger([]string{"item", "price", "qty"},
		[]string{"eco bag", "N/A", "2.5"},
	)

	rows, _, issues := Normalize(table, types.Columns{Item: "item", Price: "price", Quantity: "qty"})

	if !rows[0].UnitPrice.IsZero() || rows[0].Quantity != 25 {
		t.Fatalf("row = %+v", rows[0])
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want 2", issues)
	}

	price := issues[0]
	if price.Severity != validation.SeverityWarning || price.Row != 2 || price.Field != "price" || price.Value != "N/A" {
		t.Errorf("price issue = %+v", price)
	}
	if price.Message != "treated as 0: no digits" {
		t.Errorf("price message = %q", price.Message)
	}
	if issues[1].Field != "qty" || issues[1].Message != "decimal point dropped, read as 25" {
		t.Errorf("quantity issue = %+v", issues[1])
	}
}

func TestNormalize_MeasuredMode(t *testing.T) {
	table := ledger([]string{"item", "price", "emission"},
		[]string{"refill detergent", "1,000", "1.5kg"},
		[]string{"plastic bag", "500", ""},
	)

	rows, mode, _ := Normalize(table, types.Columns{Item: "item", Price: "price", Emission: "emission"})

	if mode != ModeMeasured {
		t.Fatalf("mode = %v, want measured", mode)
	}
	if rows[0].RecordedEmissionKg == nil || *rows[0].RecordedEmissionKg != 1.5 {
		t.Errorf("recorded emission = %v, want 1.5", rows[0].RecordedEmissionKg)
	}
	if rows[1].RecordedEmissionKg == nil || *rows[1].RecordedEmissionKg != 0 {
		t.Errorf("blank recorded emission = %v, want 0", rows[1].RecordedEmissionKg)
	}
}

func TestMode_String(t *testing.T) {
	if ModeMeasured.String() != "measured" || ModeEstimated.String() != "estimated" {
		t.Errorf("labels = %q, %q", ModeMeasured, ModeEstimated)
	}
	text, err := ModeMeasured.MarshalText()
	if err != nil || string(text) != "measured" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
}
