package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuditFields_JSONString(t *testing.T) {
	fields, err := ParseAuditFields(`{"ClientIP":"203.0.113.7","ResultStatus":"Succeeded","SourceFileName":"q1-report.xlsx"}`)

	require.NoError(t, err)
	assert.Equal(t, AuditFields{
		ClientIP:       "203.0.113.7",
		ResultStatus:   "Succeeded",
		SourceFileName: "q1-report.xlsx",
	}, fields)
}

func TestParseAuditFields_StructuredObject(t *testing.T) {
	fields, err := ParseAuditFields(map[string]any{
		"ClientIP":     "198.51.100.9",
		"ResultStatus": "Failed",
		"Workload":     "Exchange",
	})

	require.NoError(t, err)
	assert.Equal(t, "198.51.100.9", fields.ClientIP)
	assert.Equal(t, "Failed", fields.ResultStatus)
	assert.Empty(t, fields.SourceFileName)
}

func TestParseAuditFields_MissingKeys(t *testing.T) {
	fields, err := ParseAuditFields(`{}`)

	require.NoError(t, err)
	assert.Equal(t, AuditFields{}, fields, "absent keys come back empty; the caller applies sentinels")
}

func TestParseAuditFields_NonStringValues(t *testing.T) {
	fields, err := ParseAuditFields(map[string]any{"ClientIP": 42})

	require.NoError(t, err)
	assert.Empty(t, fields.ClientIP)
}

func TestParseAuditFields_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"truncated json", `{"ClientIP":`},
		{"empty string", ""},
		{"plain text", "not json"},
		{"nil", nil},
		{"wrong type", 17},
		{"json array", `["ClientIP"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAuditFields(tt.input)
			require.Error(t, err)
		})
	}
}
