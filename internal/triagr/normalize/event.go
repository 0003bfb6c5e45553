package normalize

import (
	"time"

	"github.com/vaibhaw-/TriagR/internal/triagr/geoip"
)

// Event is one normalized audit record. Timestamps keep the wall clock of
// the source export; downstream rules reason about local business hours,
// not absolute instants.
type Event struct {
	EventID      string         `json:"event_id"`
	Timestamp    time.Time      `json:"timestamp"`
	Operation    string         `json:"operation"`
	UserID       string         `json:"user_id"`
	ClientIP     string         `json:"client_ip"`
	ResultStatus string         `json:"result_status"`
	FileName     string         `json:"file_name,omitempty"`
	Geo          geoip.Record   `json:"geo"`
	Meta         map[string]any `json:"meta,omitempty"`
}
