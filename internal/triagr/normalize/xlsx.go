package normalize

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXReader loads the first worksheet of an Excel export. Cells come back
// as display strings, which matches how the CSV path sees the same data.
type XLSXReader struct{}

// ReadTable implements TableReader.
func (x *XLSXReader) ReadTable(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}
