// =============================================================================
// Eco-Consumption Analyzer - Report Writer Module
// =============================================================================
//
// This module renders an analysis Report in one of the supported formats:
//
//   text - A human-readable summary with locale-aware number formatting
//   json - The full report as indented JSON
//   yaml - The full report as YAML
//   xml  - The full report as an XML document:
//
//          <?xml version="1.0" encoding="UTF-8"?>
//          <eco_report run_id="..." source="ledger.xlsx" sheet="Sheet1">
//            <metrics>
//              <mode>estimated</mode>
//              <grand_total_cost>3500</grand_total_cost>
//              ...
//            </metrics>
//            <eco_items><item>...</item></eco_items>
//            <cost_comparison><bucket label="eco">...</bucket></cost_comparison>
//            ...
//          </eco_report>
//
//   xlsx - A workbook with a summary sheet, one sheet per breakdown and a
//          pie chart of spending by item (xlsx.go)
//
// The normalized rows are only rendered when Options.IncludeRows is set.
//
// =============================================================================

package reportwriter

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/analysis"
	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
	FormatXLSX = "xlsx"
)

// =============================================================================
// RENDER OPTIONS
// =============================================================================

// Options contains options for report rendering.
type Options struct {
	// Format is one of the Format constants.
	// Default: "text"
	Format string

	// IncludeRows renders the normalized rows (the data preview).
	// Default: false
	IncludeRows bool

	// Indent is the indentation of JSON and XML output.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Format:                FormatText,
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// Extension returns the file extension of a report format, including the dot.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatText:
		return ".txt"
	case FormatYAML:
		return ".yaml"
	default:
		return "." + strings.ToLower(format)
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// Render renders the report in the requested format.
//
// PARAMETERS:
//   - report: The analysis report. It is not modified.
//   - opts: The rendering options.
//
// RETURNS:
//   - The rendered document.
//   - An error if the format is unknown or rendering fails.
func Render(report *analysis.Report, opts Options) ([]byte, error) {
	view := *report
	if !opts.IncludeRows {
		view.Rows = nil
	}
	if opts.Indent == "" {
		opts.Indent = "  "
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		return renderText(&view, opts), nil

	case FormatJSON:
		data, err := json.MarshalIndent(&view, "", opts.Indent)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil

	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&view); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return buf.Bytes(), nil

	case FormatXML:
		return renderXML(&view, opts)

	case FormatXLSX:
		return renderXLSX(&view)

	default:
		return nil, fmt.Errorf("unsupported report format %q", opts.Format)
	}
}

// renderXML marshals the report with an optional XML declaration.
func renderXML(report *analysis.Report, opts Options) ([]byte, error) {
	var buffer bytes.Buffer

	if opts.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	xmlBytes, err := xml.MarshalIndent(report, "", opts.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	buffer.Write(xmlBytes)
	buffer.WriteByte('\n')

	return buffer.Bytes(), nil
}
