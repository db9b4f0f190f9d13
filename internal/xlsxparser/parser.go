// =============================================================================
// Eco-Consumption Analyzer - XLSX Table Parser
// =============================================================================
//
// This module reads a purchase ledger workbook into a Table. One sheet is
// read per run:
//   - An empty sheet selector reads the first sheet of the workbook.
//   - A named selector reads that sheet, or fails if it does not exist.
//
// EXPECTED SHEET LAYOUT:
//   The first non-empty row holds the column headers; every following
//   non-empty row is a purchase record.
//
//   | 구매 품목         | 금액     | 수량 | 탄소 배출량(kg) |
//   |-------------------|----------|------|-----------------|
//   | 리필 주방세제     | ₩3,500   | 2    | 0.4             |
//   | 플라스틱 컵       | 1,200    |      | 0.9             |
//
// Cells are read as stored, not as displayed: a number formatted "#,##0" or
// "0.00" arrives as its raw value, so the display format never changes what
// the normalizer sees. Text cells such as "₩3,500" arrive unchanged.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads one sheet of an XLSX workbook and returns it as a Table.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - sheet: The sheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - The parsed Table.
//   - An *types.IOError if the workbook or sheet cannot be read.
func Parse(path, sheet string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &types.IOError{Source: path, Op: "open workbook", Err: err}
	}
	defer f.Close()

	return readSheet(f, path, sheet)
}

// ParseReader reads one sheet of an XLSX workbook from a reader, for uploads
// that never touch the filesystem.
//
// PARAMETERS:
//   - r: The workbook content.
//   - source: A name for the workbook, used in errors and the Table.
//   - sheet: The sheet to read. Empty selects the first sheet.
func ParseReader(r io.Reader, source, sheet string) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &types.IOError{Source: source, Op: "open workbook", Err: err}
	}
	defer f.Close()

	return readSheet(f, source, sheet)
}

// SheetNames lists the sheets of a workbook in workbook order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &types.IOError{Source: path, Op: "open workbook", Err: err}
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// readSheet resolves the sheet selector and converts the sheet rows.
func readSheet(f *excelize.File, source, sheet string) (*types.Table, error) {
	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, &types.IOError{Source: source, Op: "select sheet", Err: err}
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &types.IOError{Source: source, Op: "read sheet", Err: err}
	}

	return types.TableFromRecords(source, sheetName, rows), nil
}

// resolveSheet maps the sheet selector to an existing sheet name.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return name, nil
	}

	for _, name := range f.GetSheetList() {
		if name == sheet {
			return name, nil
		}
	}

	return "", fmt.Errorf("sheet %q not found (available: %v)", sheet, f.GetSheetList())
}
