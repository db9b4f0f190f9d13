package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"github.com/xuri/excelize/v2"
)

func opts() Options {
	return Options{CSV: config.DefaultMainConfig().CSVSettings}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"ledger.xlsx", FormatXLSX, false},
		{"LEDGER.XLSM", FormatXLSX, false},
		{"ledger.csv", FormatCSV, false},
		{"ledger.tsv", FormatCSV, false},
		{"ledger.pdf", "", true},
		{"ledger", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, %v", tt.name, got, err)
			}
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"purchase item", "amount"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"refill shampoo", "8,000"}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path, opts())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Sheet != "Sheet1" || len(table.Rows) != 1 {
		t.Fatalf("unexpected table: %+v", table)
	}
}

func TestLoad_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte("purchase item,amount\neco bag,900\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path, opts())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Rows[0]["amount"] != "900" {
		t.Fatalf("unexpected table: %+v", table)
	}
}

func TestLoad_IOErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.xlsx")
	if err := os.WriteFile(corrupt, []byte("definitely not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{
		corrupt,
		filepath.Join(dir, "missing.csv"),
		filepath.Join(dir, "ledger.pdf"),
	} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := Load(path, opts())
			var ioErr *types.IOError
			if !errors.As(err, &ioErr) {
				t.Fatalf("err = %v, want IOError", err)
			}
		})
	}
}

func TestLoadReader(t *testing.T) {
	table, err := LoadReader(strings.NewReader("purchase item|amount\nbamboo brush|1500\n"), "upload",
		FormatCSV, Options{CSV: config.CSVSettings{Delimiter: "|"}})
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if table.Rows[0]["purchase item"] != "bamboo brush" {
		t.Fatalf("unexpected table: %+v", table)
	}

	_, err = LoadReader(strings.NewReader(""), "upload", Format("pdf"), opts())
	var ioErr *types.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want IOError", err)
	}
}
