package types

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestTableFromRecords(t *testing.T) {
	records := [][]string{
		{"", ""},
		{" 구매 품목 ", "금액", "", "금액"},
		{"텀블러", "12,000"},
		{"", "", ""},
		{"리필 세제", "₩3,500", "x", "9"},
	}

	table := TableFromRecords("ledger.xlsx", "Sheet1", records)

	wantHeaders := []string{"구매 품목", "금액", "Column_3", "금액.1"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Fatalf("Headers = %v, want %v", table.Headers, wantHeaders)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if table.Rows[0]["금액"] != "12,000" || table.Rows[0]["금액.1"] != "" {
		t.Errorf("row 0 = %v", table.Rows[0])
	}
	if table.Rows[1]["금액.1"] != "9" {
		t.Errorf("row 1 = %v", table.Rows[1])
	}
	if got := []int{table.RowNumber(0), table.RowNumber(1)}; !reflect.DeepEqual(got, []int{3, 5}) {
		t.Errorf("row numbers = %v, want [3 5]", got)
	}
	if !table.HasColumn("Column_3") || table.HasColumn("수량") {
		t.Error("HasColumn mismatch")
	}
}

func TestTableFromRecords_DuplicateHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []string
	}{
		{"repeated", []string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{"suffix taken later", []string{"a", "a", "a.1"}, []string{"a", "a.2", "a.1"}},
		{"suffix taken earlier", []string{"a.1", "a", "a"}, []string{"a.1", "a", "a.2"}},
		{"generated name taken", []string{"Column_2", "", "Column_2"}, []string{"Column_2", "Column_2.1", "Column_2.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := TableFromRecords("ledger.csv", "", [][]string{tt.headers, {"1", "2", "3"}})
			if !reflect.DeepEqual(table.Headers, tt.want) {
				t.Fatalf("Headers = %v, want %v", table.Headers, tt.want)
			}
			if len(table.Rows[0]) != len(tt.want) {
				t.Errorf("row keys collided: %v", table.Rows[0])
			}
		})
	}
}

func TestTableFromRecords_Empty(t *testing.T) {
	table := TableFromRecords("empty.csv", "", nil)
	if len(table.Headers) != 0 || len(table.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}

	headerOnly := TableFromRecords("h.csv", "", [][]string{{"purchase item", "amount"}})
	if len(headerOnly.Headers) != 2 || len(headerOnly.Rows) != 0 {
		t.Fatalf("expected header-only table, got %+v", headerOnly)
	}
}

func TestErrors(t *testing.T) {
	ioErr := &IOError{Source: "a.xlsx", Op: "open", Err: io.ErrUnexpectedEOF}
	if !errors.Is(ioErr, io.ErrUnexpectedEOF) {
		t.Error("IOError does not unwrap to its cause")
	}
	if !strings.Contains(ioErr.Error(), "open a.xlsx") {
		t.Errorf("IOError message = %q", ioErr.Error())
	}

	schemaErr := &SchemaError{Source: "a.xlsx", Missing: []string{"purchase item", "amount"}}
	if got := schemaErr.Error(); got != "a.xlsx: missing required field(s): purchase item, amount" {
		t.Errorf("SchemaError message = %q", got)
	}
}
