package normalize

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhaw-/TriagR/internal/triagr/geoip"
)

type stubSource struct {
	records map[string]geoip.Record
}

func (s *stubSource) Lookup(_ context.Context, ip string) (geoip.Record, error) {
	if rec, ok := s.records[ip]; ok {
		return rec, nil
	}
	return geoip.Record{}, fmt.Errorf("no record for %s", ip)
}

func testNormalizer() *Normalizer {
	src := &stubSource{records: map[string]geoip.Record{
		"203.0.113.7":  {Country: "CN", Region: "Beijing", City: "Beijing", Latitude: 39.9, Longitude: 116.4},
		"198.51.100.9": {Country: "US", Region: "Massachusetts", City: "Boston", Latitude: 42.36, Longitude: -71.06},
	}}
	return NewNormalizer(geoip.NewResolver(nil, src), "run-test")
}

func auditTable(rows ...[]string) *Table {
	return &Table{
		Headers: []string{"CreationDate", "Operation", "UserId", "AuditData"},
		Rows:    rows,
	}
}

func TestNormalize_SchemaError(t *testing.T) {
	table := &Table{
		Headers: []string{"CreationDate", "RecordType", "UserId"},
		Rows:    [][]string{{"2024-03-15 14:30:00", "6", "alice@corp.example"}},
	}

	_, err := testNormalizer().Normalize(context.Background(), table)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Operation", "AuditData"}, schemaErr.Missing)
	assert.Contains(t, schemaErr.Error(), "Operation, AuditData")
}

func TestNormalize_EventFields(t *testing.T) {
	table := auditTable(
		[]string{"2024-03-15 14:30:00", "FileAccessed", "alice@corp.example",
			`{"ClientIP":"203.0.113.7","ResultStatus":"Succeeded","SourceFileName":"q1-report.xlsx"}`},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	evt := res.Events[0]
	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, 14, evt.Timestamp.Hour())
	assert.Equal(t, "FileAccessed", evt.Operation)
	assert.Equal(t, "alice@corp.example", evt.UserID)
	assert.Equal(t, "203.0.113.7", evt.ClientIP)
	assert.Equal(t, "Succeeded", evt.ResultStatus)
	assert.Equal(t, "q1-report.xlsx", evt.FileName)
	assert.Equal(t, "CN", evt.Geo.Country)
	assert.Equal(t, "run-test", evt.Meta["run_id"])
	assert.Equal(t, 1, evt.Meta["row"])
}

func TestNormalize_SortsByTimestampStable(t *testing.T) {
	table := auditTable(
		[]string{"2024-03-15 09:00:00", "UserLogin", "bob@corp.example", `{"ClientIP":"198.51.100.9"}`},
		[]string{"2024-03-15 09:00:00", "UserLogin", "carol@corp.example", `{"ClientIP":"198.51.100.9"}`},
		[]string{"2024-03-15 08:15:00", "UserLogin", "alice@corp.example", `{"ClientIP":"198.51.100.9"}`},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.NoError(t, err)
	require.Len(t, res.Events, 3)
	assert.Equal(t, "alice@corp.example", res.Events[0].UserID)
	assert.Equal(t, "bob@corp.example", res.Events[1].UserID, "equal timestamps keep input order")
	assert.Equal(t, "carol@corp.example", res.Events[2].UserID)
}

func TestNormalize_SkipsBadRows(t *testing.T) {
	table := auditTable(
		[]string{"not a date", "UserLogin", "alice@corp.example", `{"ClientIP":"198.51.100.9"}`},
		[]string{"2024-03-15 10:00:00", "UserLogin", "bob@corp.example", `{"ClientIP":`},
		[]string{"2024-03-15 11:00:00", "UserLogin", "carol@corp.example", `{"ClientIP":"198.51.100.9"}`},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "carol@corp.example", res.Events[0].UserID)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, SkippedRow{Row: 1, Reason: reasonBadTimestamp, Raw: map[string]string{
		"CreationDate": "not a date", "Operation": "UserLogin",
		"UserId": "alice@corp.example", "AuditData": `{"ClientIP":"198.51.100.9"}`,
	}}, res.Skipped[0])
	assert.Equal(t, 2, res.Skipped[1].Row)
	assert.Equal(t, reasonBadAuditData, res.Skipped[1].Reason)
}

func TestNormalize_NoValidData(t *testing.T) {
	table := auditTable(
		[]string{"not a date", "UserLogin", "alice@corp.example", `{}`},
		[]string{"2024-03-15 10:00:00", "UserLogin", "bob@corp.example", "broken"},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.ErrorIs(t, err, ErrNoValidData)
	require.NotNil(t, res, "skips must survive a no-data failure")
	assert.Len(t, res.Skipped, 2)
}

func TestNormalize_EmptyTable(t *testing.T) {
	res, err := testNormalizer().Normalize(context.Background(), auditTable())

	require.ErrorIs(t, err, ErrNoValidData)
	assert.Empty(t, res.Skipped)
}

func TestNormalize_FileNameOnlyOnFileAccessed(t *testing.T) {
	table := auditTable(
		[]string{"2024-03-15 10:00:00", "FileDownloaded", "alice@corp.example",
			`{"ClientIP":"198.51.100.9","SourceFileName":"secret.docx"}`},
		[]string{"2024-03-15 11:00:00", "FileAccessed", "alice@corp.example",
			`{"ClientIP":"198.51.100.9"}`},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Empty(t, res.Events[0].FileName, "non-access operations drop the file name")
	assert.Equal(t, "N/A", res.Events[1].FileName, "access without a name gets the sentinel")
}

func TestNormalize_DefaultsMissingAuditFields(t *testing.T) {
	table := auditTable(
		[]string{"2024-03-15 10:00:00", "UserLoggedIn", "alice@corp.example", `{}`},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.NoError(t, err)
	evt := res.Events[0]
	assert.Equal(t, geoip.NoIP, evt.ClientIP)
	assert.Equal(t, "N/A", evt.ResultStatus)
	assert.Equal(t, geoip.LocalRecord(), evt.Geo, "a missing address never reaches the lookup source")
}

func TestNormalize_NaiveClockPreserved(t *testing.T) {
	table := auditTable(
		[]string{"2024-03-15T22:45:00+05:30", "UserLogin", "alice@corp.example", `{"ClientIP":"198.51.100.9"}`},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.NoError(t, err)
	assert.Equal(t, 22, res.Events[0].Timestamp.Hour(),
		"the wall clock of the export is kept; no UTC conversion")
}

func TestNormalize_SkipsBlankRows(t *testing.T) {
	table := auditTable(
		[]string{"", "", "", ""},
		[]string{"2024-03-15 10:00:00", "UserLogin", "alice@corp.example", `{"ClientIP":"198.51.100.9"}`},
		[]string{},
	)

	res, err := testNormalizer().Normalize(context.Background(), table)

	require.NoError(t, err)
	assert.Len(t, res.Events, 1)
	assert.Empty(t, res.Skipped, "blank rows are ignored, not rejected")
}
