package normalize

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/vaibhaw-/TriagR/internal/triagr/geoip"
)

// Required input columns. UserId is spelled the way the unified audit log
// exports it.
const (
	colCreationDate = "CreationDate"
	colOperation    = "Operation"
	colUserID       = "UserId"
	colAuditData    = "AuditData"
)

const opFileAccessed = "FileAccessed"

// Skip reasons recorded in reject output.
const (
	reasonBadTimestamp = "unparseable timestamp"
	reasonBadAuditData = "invalid audit data"
)

var requiredColumns = []string{colCreationDate, colOperation, colUserID, colAuditData}

// ErrNoValidData reports an input that produced zero usable events.
var ErrNoValidData = errors.New("no valid data could be parsed from the file")

// SchemaError reports required columns missing from the input header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// SkippedRow records one data row dropped during normalization. Row numbers
// are 1-based over data rows, excluding the header.
type SkippedRow struct {
	Row    int               `json:"row"`
	Reason string            `json:"reason"`
	Raw    map[string]string `json:"raw,omitempty"`
}

// Result is the outcome of one normalization pass.
type Result struct {
	Events  []Event
	Skipped []SkippedRow
}

// Normalizer turns raw audit tables into chronologically ordered events
// with geolocation attached.
type Normalizer struct {
	resolver *geoip.Resolver
	runID    string
}

// NewNormalizer wires a normalizer to a resolver. runID is stamped into
// every event's meta block.
func NewNormalizer(resolver *geoip.Resolver, runID string) *Normalizer {
	return &Normalizer{resolver: resolver, runID: runID}
}

// Normalize validates the table schema, parses every data row, resolves
// client addresses and returns events sorted by timestamp. Rows with an
// unparseable timestamp or malformed AuditData are skipped, not fatal.
// When zero rows survive, it returns ErrNoValidData together with a
// non-nil Result so callers can still report the skips.
func (n *Normalizer) Normalize(ctx context.Context, table *Table) (*Result, error) {
	if table == nil {
		return nil, &SchemaError{Missing: requiredColumns}
	}
	idx := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		h = strings.TrimSpace(h)
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	res := &Result{}
	for i, row := range table.Rows {
		rowNum := i + 1
		if isEmptyRow(row) {
			continue
		}
		evt, reason := n.normalizeRow(ctx, idx, row, rowNum)
		if reason != "" {
			res.Skipped = append(res.Skipped, SkippedRow{
				Row:    rowNum,
				Reason: reason,
				Raw:    rawMap(table.Headers, row),
			})
			continue
		}
		res.Events = append(res.Events, evt)
	}
	if len(res.Events) == 0 {
		return res, ErrNoValidData
	}
	sort.SliceStable(res.Events, func(a, b int) bool {
		return res.Events[a].Timestamp.Before(res.Events[b].Timestamp)
	})
	return res, nil
}

func (n *Normalizer) normalizeRow(ctx context.Context, idx map[string]int, row []string, rowNum int) (Event, string) {
	ts, err := dateparse.ParseAny(cellAt(row, idx[colCreationDate]))
	if err != nil {
		return Event{}, reasonBadTimestamp
	}
	fields, err := ParseAuditFields(cellAt(row, idx[colAuditData]))
	if err != nil {
		return Event{}, reasonBadAuditData
	}

	clientIP := fields.ClientIP
	if clientIP == "" {
		clientIP = geoip.NoIP
	}
	status := fields.ResultStatus
	if status == "" {
		status = "N/A"
	}
	op := cellAt(row, idx[colOperation])

	// File names only matter on file access events; other operations leave
	// the field empty so it drops out of the JSON entirely.
	var fileName string
	if op == opFileAccessed {
		fileName = fields.SourceFileName
		if fileName == "" {
			fileName = "N/A"
		}
	}

	return Event{
		EventID:      uuid.NewString(),
		Timestamp:    ts,
		Operation:    op,
		UserID:       cellAt(row, idx[colUserID]),
		ClientIP:     clientIP,
		ResultStatus: status,
		FileName:     fileName,
		Geo:          n.resolver.Resolve(ctx, clientIP),
		Meta: map[string]any{
			"run_id": n.runID,
			"row":    rowNum,
		},
	}, ""
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rawMap(headers, row []string) map[string]string {
	m := make(map[string]string, len(headers))
	for i, h := range headers {
		m[strings.TrimSpace(h)] = cellAt(row, i)
	}
	return m
}
