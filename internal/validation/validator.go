// =============================================================================
// Eco-Consumption Analyzer - Validation
// =============================================================================
//
// This module validates a loaded Table before any business logic runs.
//
// VALIDATION STRATEGY:
//   1. Column resolution: each logical field (item, price, quantity,
//      emission) is matched against the table headers using the configured
//      aliases.
//   2. Schema check: the item and price columns are required. A missing
//      required column is fatal and reported as a *types.SchemaError naming
//      every missing field at once.
//   3. Data quality: dirty numeric cells are never fatal. The normalizer
//      coerces them to zero and reports an Issue with severity "warning" so
//      the coercion is visible in the report.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
)

// =============================================================================
// COLUMN RESOLUTION
// =============================================================================

// ResolveColumns maps each logical field to the first table header that
// matches one of its aliases. Matching is case-insensitive and ignores
// surrounding whitespace. Unmatched fields are left empty.
func ResolveColumns(table *types.Table, aliases config.ColumnAliases) types.Columns {
	return types.Columns{
		Item:     findHeader(table.Headers, aliases.Item),
		Price:    findHeader(table.Headers, aliases.Price),
		Quantity: findHeader(table.Headers, aliases.Quantity),
		Emission: findHeader(table.Headers, aliases.Emission),
	}
}

// findHeader returns the first header matching any alias, in alias order.
func findHeader(headers []string, aliases []string) string {
	for _, alias := range aliases {
		want := normalizeHeader(alias)
		for _, h := range headers {
			if normalizeHeader(h) == want {
				return h
			}
		}
	}
	return ""
}

// normalizeHeader folds case and whitespace for header comparison.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// =============================================================================
// SCHEMA VALIDATION
// =============================================================================

// RequireColumns checks that every required field was resolved.
//
// PARAMETERS:
//   - table: The loaded table (used for the error source).
//   - cols: The resolved columns.
//   - aliases: The configured aliases (used to name missing fields).
//
// RETURNS:
//   - nil if item and price columns are present.
//   - A *types.SchemaError naming every missing field otherwise.
func RequireColumns(table *types.Table, cols types.Columns, aliases config.ColumnAliases) error {
	var missing []string

	if cols.Item == "" {
		missing = append(missing, describeField("item", aliases.Item))
	}
	if cols.Price == "" {
		missing = append(missing, describeField("price", aliases.Price))
	}

	if len(missing) > 0 {
		return &types.SchemaError{Source: table.Source, Missing: missing}
	}
	return nil
}

// describeField renders a field and its accepted headers for error messages,
// e.g. `item ("구매 품목" | "purchase item")`.
func describeField(field string, aliases []string) string {
	if len(aliases) == 0 {
		return field
	}
	quoted := make([]string, len(aliases))
	for i, a := range aliases {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return fmt.Sprintf("%s (%s)", field, strings.Join(quoted, " | "))
}

// =============================================================================
// DATA QUALITY ISSUES
// =============================================================================

// SeverityWarning is the severity of every data quality issue: a coerced
// cell never fails the run.
const SeverityWarning = "warning"

// Issue represents a single data quality finding on one cell.
type Issue struct {
	// Severity is "warning" for coerced cells.
	Severity string `json:"severity" yaml:"severity" xml:"severity,attr"`

	// Row is the document row number of the offending cell.
	Row int `json:"row" yaml:"row" xml:"row,attr"`

	// Field is the header of the offending column.
	Field string `json:"field" yaml:"field" xml:"field,attr"`

	// Value is the raw cell text.
	Value string `json:"value" yaml:"value" xml:"value"`

	// Message is a human-readable description.
	Message string `json:"message" yaml:"message" xml:"message"`
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("[%s] row %d, field '%s': %s (value: '%s')",
		strings.ToUpper(i.Severity),
		i.Row,
		i.Field,
		i.Message,
		i.Value,
	)
}

// Coerced builds the warning emitted when a non-empty cell cleans to zero.
func Coerced(row int, field, value, reason string) Issue {
	return Issue{
		Severity: SeverityWarning,
		Row:      row,
		Field:    field,
		Value:    value,
		Message:  "treated as 0: " + reason,
	}
}

// Reinterpreted builds the warning emitted when cleaning changed the meaning
// of a cell without zeroing it, e.g. a quantity of "2.5" read as 25.
func Reinterpreted(row int, field, value, reason string) Issue {
	return Issue{
		Severity: SeverityWarning,
		Row:      row,
		Field:    field,
		Value:    value,
		Message:  reason,
	}
}

// FormatIssues formats issues for display, one per line.
func FormatIssues(issues []Issue) string {
	if len(issues) == 0 {
		return "No data quality issues."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Data quality issues (%d):\n", len(issues))
	for i := range issues {
		sb.WriteString("  ")
		sb.WriteString(issues[i].Error())
		sb.WriteString("\n")
	}
	return sb.String()
}
