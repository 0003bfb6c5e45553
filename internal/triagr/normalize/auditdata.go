package normalize

import (
	"fmt"

	"github.com/goccy/go-json"
)

// AuditFields is the subset of the AuditData payload the pipeline keeps.
// Absent keys come back as empty strings; callers apply sentinels.
type AuditFields struct {
	ClientIP       string
	ResultStatus   string
	SourceFileName string
}

// ParseAuditFields extracts AuditFields from an AuditData value, which
// arrives either as a JSON-encoded string (spreadsheet exports) or as an
// already structured object. Anything else is a malformed row.
func ParseAuditFields(v any) (AuditFields, error) {
	switch data := v.(type) {
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return AuditFields{}, fmt.Errorf("parse audit data: %w", err)
		}
		return auditFieldsFromMap(m), nil
	case map[string]any:
		return auditFieldsFromMap(data), nil
	case nil:
		return AuditFields{}, fmt.Errorf("audit data missing")
	default:
		return AuditFields{}, fmt.Errorf("audit data has unexpected type %T", v)
	}
}

func auditFieldsFromMap(m map[string]any) AuditFields {
	return AuditFields{
		ClientIP:       stringValue(m, "ClientIP"),
		ResultStatus:   stringValue(m, "ResultStatus"),
		SourceFileName: stringValue(m, "SourceFileName"),
	}
}

func stringValue(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
