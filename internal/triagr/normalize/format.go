package normalize

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Input formats accepted by NewTableReader.
const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is wrapped by format and reader factory errors.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DetectFormat infers the input format from a file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// NewTableReader returns the reader for an explicit format. Resolve
// FormatAuto through DetectFormat first.
func NewTableReader(format string) (TableReader, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return &CSVReader{}, nil
	case FormatXLSX:
		return &XLSXReader{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
