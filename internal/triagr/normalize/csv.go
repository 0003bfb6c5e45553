package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVReader loads comma-separated exports. Quoting in audit exports is
// frequently sloppy (raw JSON in the AuditData column), so the parser runs
// with LazyQuotes and without a fixed field count.
type CSVReader struct{}

// ReadTable implements TableReader.
func (c *CSVReader) ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := records[0]
	// Exports regularly carry a UTF-8 BOM in front of the first header.
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	return &Table{Headers: headers, Rows: records[1:]}, nil
}
