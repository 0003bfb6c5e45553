package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/vaibhaw-/TriagR/internal/triagr/geoip"
)

// GetString safely extracts a string value from an event map.
// Returns (value, ok) where ok is false if the key doesn't exist, is nil,
// or is not a string.
func GetString(e Event, key string) (string, bool) {
	if v, ok := e[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// GetBool safely extracts a boolean value from an event map.
// Returns (value, ok) where ok is false if the key doesn't exist, is nil,
// or is not a boolean.
func GetBool(e Event, key string) (bool, bool) {
	if v, ok := e[key]; ok && v != nil {
		if b, ok := v.(bool); ok {
			return b, true
		}
	}
	return false, false
}

// GetStringSlice safely extracts a string slice from an event map.
// Handles both []string (events constructed in-process) and []interface{}
// (from JSON unmarshaling). Used for the anomaly_types field.
func GetStringSlice(e Event, key string) ([]string, bool) {
	if v, ok := e[key]; ok && v != nil {
		if slice, ok := v.([]string); ok {
			return slice, true
		}
		if slice, ok := v.([]interface{}); ok {
			result := make([]string, 0, len(slice))
			for _, item := range slice {
				if s, ok := item.(string); ok {
					result = append(result, s)
				}
			}
			return result, true
		}
	}
	return nil, false
}

// GetGeoString extracts one field from the nested geo block. Missing data
// reads as Unknown, which keeps country comparisons aligned with how the
// resolver reports failed lookups.
func GetGeoString(e Event, key string) string {
	if geo, ok := e["geo"].(map[string]any); ok {
		if s, ok := geo[key].(string); ok && s != "" {
			return s
		}
	}
	return geoip.UnknownField
}

// GetGeoFloat extracts a coordinate from the nested geo block, defaulting
// to zero.
func GetGeoFloat(e Event, key string) float64 {
	if geo, ok := e["geo"].(map[string]any); ok {
		if f, ok := geo[key].(float64); ok {
			return f
		}
	}
	return 0
}

// ParseTimestamp parses an event timestamp into time.Time. Accepts
// time.Time directly (in-process pipelines) and any string format
// dateparse recognizes, which covers RFC3339 output from the parse stage
// as well as the raw export formats. Returns an error for anything else;
// time filters treat that as fail-open.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := dateparse.ParseAny(t)
		if err != nil {
			return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", t)
		}
		return parsed, nil
	case nil:
		return time.Time{}, fmt.Errorf("timestamp is nil")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type: %T", v)
	}
}

// ParseClock parses a wall-clock value like "08:30" into minutes past
// midnight. Used for the custom time range bounds.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// clockInRange reports whether the minutes-past-midnight value t falls in
// the inclusive [start, end] window. A start later than the end wraps the
// window across midnight.
func clockInRange(t, start, end int) bool {
	if start <= end {
		return t >= start && t <= end
	}
	return t >= start || t <= end
}

// stringsEqualFold performs case-insensitive string comparison.
func stringsEqualFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

// matchesAny checks if any string in the slice matches the target
// (case-insensitive). This is the core function for multi-value dimensions.
func matchesAny(target string, candidates []string) bool {
	for _, candidate := range candidates {
		if stringsEqualFold(target, candidate) {
			return true
		}
	}
	return false
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// isBusinessHours reports Monday through Friday between 08:00 and 17:59.
func isBusinessHours(t time.Time) bool {
	if isWeekend(t) {
		return false
	}
	h := t.Hour()
	return h >= 8 && h <= 17
}
