package normalize

import (
	"io"
	"strings"
)

// Table is a fully loaded tabular input: one header row plus data rows.
// Rows may be shorter than the header when trailing cells are empty; use
// cellAt for padded access.
type Table struct {
	Headers []string
	Rows    [][]string
}

// TableReader loads one spreadsheet-like format into a Table.
type TableReader interface {
	// ReadTable consumes r completely. The first row becomes the header;
	// everything after it is data.
	ReadTable(r io.Reader) (*Table, error)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
