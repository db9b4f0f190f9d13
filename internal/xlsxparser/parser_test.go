package xlsxparser

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes a workbook with the given sheets. Sheet rows are
// written starting at A1.
func buildWorkbook(t *testing.T, sheets map[string][][]any, order []string) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}

		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			values := row
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}
	return f
}

func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestParse_FirstSheetByDefault(t *testing.T) {
	f := buildWorkbook(t, map[string][][]any{
		"구매내역": {
			{"구매 품목", "금액", "수량"},
			{"리필 세제", "₩3,500", 2},
			{"플라스틱 컵", 1200, nil},
		},
		"메모": {{"note"}},
	}, []string{"구매내역", "메모"})
	path := saveWorkbook(t, f)

	table, err := Parse(path, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.Sheet != "구매내역" {
		t.Errorf("Sheet = %q, want 구매내역", table.Sheet)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if got := table.Rows[0]["금액"]; got != "₩3,500" {
		t.Errorf("price cell = %v, want ₩3,500", got)
	}
	if got := table.Rows[1]["금액"]; got != "1200" {
		t.Errorf("numeric price cell = %v, want 1200", got)
	}
	if got := table.Rows[1]["수량"]; got != "" {
		t.Errorf("blank quantity cell = %q, want empty", got)
	}
}

func TestParse_NamedSheet(t *testing.T) {
	f := buildWorkbook(t, map[string][][]any{
		"first":  {{"x"}, {"1"}},
		"second": {{"purchase item", "amount"}, {"bamboo toothbrush", "2500"}},
	}, []string{"first", "second"})
	path := saveWorkbook(t, f)

	table, err := Parse(path, "second")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !table.HasColumn("purchase item") || len(table.Rows) != 1 {
		t.Fatalf("unexpected table: %+v", table)
	}

	names, err := SheetNames(path)
	if err != nil {
		t.Fatalf("SheetNames: %v", err)
	}
	if len(names) != 2 || names[1] != "second" {
		t.Errorf("SheetNames = %v", names)
	}
}

func TestParse_UnknownSheet(t *testing.T) {
	f := buildWorkbook(t, map[string][][]any{"only": {{"a"}}}, []string{"only"})
	path := saveWorkbook(t, f)

	_, err := Parse(path, "missing")
	var ioErr *types.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "select sheet" {
		t.Fatalf("err = %v, want IOError on select sheet", err)
	}
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := ParseReader(bytes.NewReader([]byte("not a zip")), "upload.xlsx", "")
	var ioErr *types.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want IOError", err)
	}
}

func TestParseReader(t *testing.T) {
	f := buildWorkbook(t, map[string][][]any{
		"Sheet": {{"purchase item", "amount"}, {"eco bag", "900"}},
	}, []string{"Sheet"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	table, err := ParseReader(&buf, "upload.xlsx", "")
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if table.Source != "upload.xlsx" || table.Rows[0]["purchase item"] != "eco bag" {
		t.Fatalf("unexpected table: %+v", table)
	}
}

func TestParse_FormattedNumbersReadRaw(t *testing.T) {
	f := buildWorkbook(t, map[string][][]any{
		"Sheet": {
			{"purchase item", "amount", "quantity"},
			{"refill detergent", 3500.75, 2},
		},
	}, []string{"Sheet"})

	thousands := "#,##0"
	twoPlaces := "0.00"
	for cell, format := range map[string]*string{"B2": &thousands, "C2": &twoPlaces} {
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: format})
		if err != nil {
			t.Fatalf("NewStyle: %v", err)
		}
		if err := f.SetCellStyle("Sheet", cell, cell, style); err != nil {
			t.Fatalf("SetCellStyle: %v", err)
		}
	}
	path := saveWorkbook(t, f)

	table, err := Parse(path, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		column string
		want   string
	}{
		{"amount", "3500.75"},
		{"quantity", "2"},
	}
	for _, tt := range tests {
		if got := table.Rows[0][tt.column]; got != tt.want {
			t.Errorf("%s = %q, want %q", tt.column, got, tt.want)
		}
	}
}
