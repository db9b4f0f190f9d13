package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// =============================================================================
// CELL CLEANING
// =============================================================================
//
// Cleaning rule, applied identically to price, quantity and recorded emission:
//   1. Convert the cell to text and fold full-width forms to ASCII, so
//      "３，５００" reads as "3,500".
//   2. Drop every character that is not an ASCII digit (and, for fractional
//      fields, not a decimal point).
//   3. An empty result is zero.
//   4. Parse as the target numeric type; a result that still cannot be
//      parsed (e.g. "1.2.3") is zero.
//
// Malformed cells never fail the run. Steps 3 and 4 report why a non-empty
// cell became zero so the caller can surface a warning.

// CleanError explains how cleaning altered a non-blank cell.
type CleanError struct {
	// Reason is a short human-readable explanation.
	Reason string

	// Zeroed is true when the cell was coerced to zero.
	Zeroed bool
}

func (e *CleanError) Error() string {
	if e.Zeroed {
		return "treated as 0: " + e.Reason
	}
	return e.Reason
}

// CellText converts a loosely typed cell to text. Nil and NaN become "".
// Numbers are rendered without exponent or trailing zeros, so a numeric 2.0
// cell reads as "2".
func CellText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return CellText(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// keepDigits returns the ASCII digits of s, plus '.' when allowDot is set.
func keepDigits(s string, allowDot bool) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (allowDot && r == '.') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanDecimal applies the cleaning rule for fractional fields.
// A non-nil *CleanError explains a coercion to zero of a non-blank cell.
// The returned value is always usable.
func CleanDecimal(cell any) (decimal.Decimal, error) {
	text := width.Fold.String(CellText(cell))
	cleaned := keepDigits(text, true)
	if cleaned == "" {
		if strings.TrimSpace(text) != "" {
			return decimal.Zero, &CleanError{Reason: "no digits", Zeroed: true}
		}
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &CleanError{Reason: fmt.Sprintf("not a number after cleaning: %q", cleaned), Zeroed: true}
	}
	return d, nil
}

// CleanInteger applies the cleaning rule for integral fields.
// A non-nil *CleanError explains a coercion to zero, or a value that changed
// because a decimal point was dropped. The returned value is always usable.
func CleanInteger(cell any) (int64, error) {
	text := width.Fold.String(CellText(cell))
	cleaned := keepDigits(text, false)
	if cleaned == "" {
		if strings.TrimSpace(text) != "" {
			return 0, &CleanError{Reason: "no digits", Zeroed: true}
		}
		return 0, nil
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, &CleanError{Reason: "out of range: " + cleaned, Zeroed: true}
	}
	if strings.Contains(text, ".") {
		return n, &CleanError{Reason: fmt.Sprintf("decimal point dropped, read as %d", n)}
	}
	return n, nil
}

// CleanItemName stringifies and lower-cases an item name cell.
func CleanItemName(cell any) string {
	return strings.ToLower(CellText(cell))
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalize performs the typed parse of every table row.
//
// PARAMETERS:
//   - table: The loaded table.
//   - cols: The resolved columns. Item and Price must be set.
//
// RETURNS:
//   - One TransactionRow per table row, in table order.
//   - The accounting mode (measured iff the emission column is present).
//   - Data quality warnings for coerced cells.
//
// An absent quantity column sets every quantity to 1; a present but blank
// quantity cell is 0.
func Normalize(table *types.Table, cols types.Columns) ([]TransactionRow, Mode, []validation.Issue) {
	mode := ModeEstimated
	if cols.Emission != "" {
		mode = ModeMeasured
	}

	rows := make([]TransactionRow, 0, len(table.Rows))
	var issues []validation.Issue

	warn := func(rowNum int, field string, cell any, err error) {
		var cleanErr *CleanError
		if !errors.As(err, &cleanErr) {
			return
		}
		if cleanErr.Zeroed {
			issues = append(issues, validation.Coerced(rowNum, field, CellText(cell), cleanErr.Reason))
		} else {
			issues = append(issues, validation.Reinterpreted(rowNum, field, CellText(cell), cleanErr.Reason))
		}
	}

	for i, raw := range table.Rows {
		rowNum := table.RowNumber(i)
		row := TransactionRow{
			SourceRow: rowNum,
			ItemName:  CleanItemName(raw[cols.Item]),
			Quantity:  1,
		}

		price, err := CleanDecimal(raw[cols.Price])
		warn(rowNum, cols.Price, raw[cols.Price], err)
		row.UnitPrice = price

		if cols.Quantity != "" {
			qty, err := CleanInteger(raw[cols.Quantity])
			warn(rowNum, cols.Quantity, raw[cols.Quantity], err)
			row.Quantity = qty
		}

		if mode == ModeMeasured {
			emission, err := CleanDecimal(raw[cols.Emission])
			warn(rowNum, cols.Emission, raw[cols.Emission], err)
			kg := emission.InexactFloat64()
			row.RecordedEmissionKg = &kg
		}

		rows = append(rows, row)
	}

	return rows, mode, issues
}
