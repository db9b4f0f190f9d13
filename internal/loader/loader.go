// Package loader reads a purchase ledger into a Table, picking the reader by
// file type. Every failure to read the input is reported as *types.IOError.
package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/csvparser"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/xlsxparser"
)

// Format identifies an input document type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Options controls how a document is read.
type Options struct {
	// Sheet selects the workbook sheet. Empty selects the first sheet.
	// Ignored for CSV input.
	Sheet string

	// CSV holds delimiter and encoding settings for CSV input.
	CSV config.CSVSettings
}

// DetectFormat infers the document type from a file name.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

// Load reads the document at path.
func Load(path string, opts Options) (*types.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &types.IOError{Source: path, Op: "detect format", Err: err}
	}

	switch format {
	case FormatXLSX:
		return xlsxparser.Parse(path, opts.Sheet)
	default:
		return csvparser.Parse(path, opts.CSV)
	}
}

// LoadReader reads a document supplied as a stream, e.g. an upload.
func LoadReader(r io.Reader, source string, format Format, opts Options) (*types.Table, error) {
	switch format {
	case FormatXLSX:
		return xlsxparser.ParseReader(r, source, opts.Sheet)
	case FormatCSV:
		return csvparser.ParseReader(r, source, opts.CSV)
	default:
		return nil, &types.IOError{Source: source, Op: "detect format", Err: fmt.Errorf("unsupported format %q", format)}
	}
}
