package types

import (
	"fmt"
	"strconv"
	"strings"
)

// TableFromRecords builds a Table from raw records (one []string per
// document row). The first non-empty record is the header row; every
// following non-empty record is a data row. Records shorter than the header
// are padded with empty cells.
func TableFromRecords(source, sheet string, records [][]string) *Table {
	table := &Table{
		Source: source,
		Sheet:  sheet,
		Rows:   []Row{},
	}

	headerIndex := -1
	for i, rec := range records {
		if !isRecordEmpty(rec) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return table
	}

	table.Headers = cleanHeaders(records[headerIndex])

	for i := headerIndex + 1; i < len(records); i++ {
		rec := records[i]
		if isRecordEmpty(rec) {
			continue
		}

		row := make(Row, len(table.Headers))
		for col, header := range table.Headers {
			if col < len(rec) {
				row[header] = rec[col]
			} else {
				row[header] = ""
			}
		}

		table.Rows = append(table.Rows, row)
		table.RowNumbers = append(table.RowNumbers, i+1)
	}

	return table
}

// cleanHeaders trims header values, names empty headers after their column
// position and suffixes duplicates (".1", ".2", ...) so that every header is
// a unique row key. A suffix already used by another header is skipped, so
// "a", "a", "a.1" becomes "a", "a.2", "a.1".
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	reserved := make(map[string]bool, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
		reserved[header] = true
	}

	used := make(map[string]bool, len(headers))
	suffix := make(map[string]int, len(headers))

	for i, header := range cleaned {
		if used[header] {
			n := suffix[header]
			candidate := header
			for used[candidate] || reserved[candidate] {
				n++
				candidate = header + "." + strconv.Itoa(n)
			}
			suffix[header] = n
			header = candidate
		}
		used[header] = true
		cleaned[i] = header
	}

	return cleaned
}

// isRecordEmpty checks if a record contains only empty cells.
func isRecordEmpty(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
