package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVReader_ReadTable(t *testing.T) {
	data := "\uFEFFCreationDate,Operation,UserId,AuditData\n" +
		`2024-03-15 14:30:00,FileAccessed,alice@corp.example,"{""ClientIP"":""203.0.113.7""}"` + "\n" +
		"2024-03-15 15:00:00,UserLogin\n"

	table, err := (&CSVReader{}).ReadTable(strings.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, []string{"CreationDate", "Operation", "UserId", "AuditData"}, table.Headers,
		"BOM must not leak into the first header")
	require.Len(t, table.Rows, 2)
	assert.Equal(t, `{"ClientIP":"203.0.113.7"}`, table.Rows[0][3])
	assert.Len(t, table.Rows[1], 2, "short rows stay short; cellAt pads on access")
}

func TestCSVReader_Empty(t *testing.T) {
	table, err := (&CSVReader{}).ReadTable(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestXLSXReader_ReadTable(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"CreationDate", "Operation", "UserId", "AuditData"},
		{"2024-03-15 14:30:00", "FileAccessed", "alice@corp.example", `{"ClientIP":"203.0.113.7"}`},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, rerr := (&XLSXReader{}).ReadTable(buf)

	require.NoError(t, rerr)
	assert.Equal(t, []string{"CreationDate", "Operation", "UserId", "AuditData"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "alice@corp.example", table.Rows[0][2])
}

func TestXLSXReader_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXReader{}).ReadTable(strings.NewReader("plain text, not a zip"))

	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"export.csv", FormatCSV, false},
		{"EXPORT.CSV", FormatCSV, false},
		{"export.xlsx", FormatXLSX, false},
		{"export.xlsm", FormatXLSX, false},
		{"export.xls", "", true},
		{"export.json", "", true},
		{"export", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTableReader_Unsupported(t *testing.T) {
	_, err := NewTableReader("parquet")

	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
