// =============================================================================
// Eco-Consumption Analyzer - CSV Parser Module
// =============================================================================
//
// This module reads a purchase ledger exported as CSV into a Table. It
// handles the formats household ledgers and banking apps commonly export:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Legacy Korean encodings (EUC-KR / CP949) and Western single-byte
//     encodings, decoded to UTF-8 before parsing
//   - A UTF-8 byte order mark on the first header
//   - Rows with fewer or more fields than the header
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns it as a Table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The parsed Table.
//   - An *types.IOError if the file cannot be opened, decoded or parsed.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &types.IOError{Source: filePath, Op: "open csv", Err: err}
	}
	defer file.Close()

	return ParseReader(file, filePath, settings)
}

// ParseReader reads CSV content from a reader and returns it as a Table.
//
// PARSING PROCESS:
//   1. Decode the content from the configured encoding to UTF-8
//   2. Configure the CSV reader with the configured delimiter
//   3. Read all records
//   4. Build the Table (first non-empty record is the header)
func ParseReader(r io.Reader, source string, settings config.CSVSettings) (*types.Table, error) {
	enc, err := lookupEncoding(settings.Encoding)
	if err != nil {
		return nil, &types.IOError{Source: source, Op: "decode csv", Err: err}
	}

	reader := bufio.NewReader(r)
	var decoded io.Reader = reader
	if enc != nil {
		decoded = transform.NewReader(reader, enc.NewDecoder())
	}

	csvReader := csv.NewReader(decoded)
	if err := configureReader(csvReader, settings); err != nil {
		return nil, &types.IOError{Source: source, Op: "configure csv", Err: err}
	}

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, &types.IOError{Source: source, Op: "read csv", Err: err}
	}

	return types.TableFromRecords(source, "", records), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	case "", ",":
		reader.Comma = ','
	default:
		runes := []rune(settings.Delimiter)
		if len(runes) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", settings.Delimiter)
		}
		reader.Comma = runes[0]
	}

	// Ledger exports are ragged: trailing empty cells are often dropped.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true

	return nil
}

// lookupEncoding maps an encoding name to a decoder. A nil encoding means
// the content is already UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "UTF-16", "UTF16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "EUC-KR", "EUCKR", "CP949", "MS949", "UHC":
		return korean.EUCKR, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}
