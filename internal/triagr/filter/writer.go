package filter

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// WriteEventNDJSON writes one event as a single NDJSON line. All fields
// are preserved without projection, so downstream consumers see the
// complete record.
func WriteEventNDJSON(w io.Writer, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}
