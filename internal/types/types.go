// =============================================================================
// Eco-Consumption Analyzer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser / csvparser (produce a Table)
//   - loader and validation (produce IOError / SchemaError)
//   - analysis (consumes a Table)
//   - analyzer (maps errors to results)
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// TABLE TYPES
// =============================================================================

// Row is a single record of a loaded table, keyed by header name.
// Cell values are loosely typed: spreadsheet readers hand over strings, while
// an external collaborator may hand over numbers, booleans or nil.
type Row map[string]any

// Table represents a parsed tabular document (one sheet of a workbook, or
// one CSV file).
type Table struct {
	// Source is the path or name of the document the table was read from.
	Source string

	// Sheet is the name of the sheet the rows were read from.
	// Empty for formats without sheets (CSV).
	Sheet string

	// Headers contains the column headers in document order.
	Headers []string

	// Rows contains the data rows. Row i was found on spreadsheet row
	// RowNumbers[i] when RowNumbers is populated.
	Rows []Row

	// RowNumbers contains the 1-based document row number of each data row.
	// Optional; used for warning messages only.
	RowNumbers []int
}

// HasColumn reports whether the table has a header with the exact name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// RowNumber returns the document row number of the i-th data row, or i+2
// (header on row 1) if row numbers were not recorded.
func (t *Table) RowNumber(i int) int {
	if i < len(t.RowNumbers) {
		return t.RowNumbers[i]
	}
	return i + 2
}

// Columns holds the actual header names of the logical input fields, as
// resolved against a Table. An empty name means the column is absent.
type Columns struct {
	// Item is the purchase item name column.
	Item string

	// Price is the unit price column.
	Price string

	// Quantity is the quantity column. Optional.
	Quantity string

	// Emission is the recorded carbon emission column. Optional.
	Emission string
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// IOError is returned when the input cannot be read or parsed as tabular data.
// It is fatal: the run aborts and the error is surfaced to the caller.
type IOError struct {
	// Source is the path or name of the input.
	Source string

	// Op describes the failed operation (e.g. "open", "read sheet").
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when required fields are missing from the input.
type SchemaError struct {
	// Source is the path or name of the input.
	Source string

	// Missing contains the names of every missing required field.
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("missing required field(s): %s", strings.Join(e.Missing, ", "))
	if e.Source != "" {
		return e.Source + ": " + msg
	}
	return msg
}
