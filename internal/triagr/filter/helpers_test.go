package filter

import (
	"testing"
	"time"
)

func TestGetString(t *testing.T) {
	e := Event{"operation": "UserLogin", "count": 3, "missing": nil}

	if v, ok := GetString(e, "operation"); !ok || v != "UserLogin" {
		t.Errorf("GetString(operation) = %q, %v", v, ok)
	}
	if _, ok := GetString(e, "count"); ok {
		t.Error("non-string value should not be ok")
	}
	if _, ok := GetString(e, "missing"); ok {
		t.Error("nil value should not be ok")
	}
	if _, ok := GetString(e, "absent"); ok {
		t.Error("absent key should not be ok")
	}
}

func TestGetBool(t *testing.T) {
	e := Event{"compromised": true, "operation": "UserLogin"}

	if v, ok := GetBool(e, "compromised"); !ok || !v {
		t.Errorf("GetBool(compromised) = %v, %v", v, ok)
	}
	if _, ok := GetBool(e, "operation"); ok {
		t.Error("non-bool value should not be ok")
	}
}

func TestGetStringSlice(t *testing.T) {
	e := Event{
		"direct":  []string{"a", "b"},
		"decoded": []any{"c", 7, "d"},
		"scalar":  "x",
	}

	if v, ok := GetStringSlice(e, "direct"); !ok || len(v) != 2 {
		t.Errorf("GetStringSlice(direct) = %v, %v", v, ok)
	}
	v, ok := GetStringSlice(e, "decoded")
	if !ok || len(v) != 2 || v[0] != "c" || v[1] != "d" {
		t.Errorf("GetStringSlice(decoded) = %v, %v; non-strings should be dropped", v, ok)
	}
	if _, ok := GetStringSlice(e, "scalar"); ok {
		t.Error("scalar value should not be ok")
	}
}

func TestGetGeoString(t *testing.T) {
	withGeo := Event{"geo": map[string]any{"country": "DE", "region": ""}}

	if v := GetGeoString(withGeo, "country"); v != "DE" {
		t.Errorf("GetGeoString(country) = %q", v)
	}
	if v := GetGeoString(withGeo, "region"); v != "Unknown" {
		t.Errorf("empty geo field should read as Unknown, got %q", v)
	}
	if v := GetGeoString(Event{}, "country"); v != "Unknown" {
		t.Errorf("missing geo block should read as Unknown, got %q", v)
	}
}

func TestParseTimestamp(t *testing.T) {
	if _, err := ParseTimestamp("2024-03-15T14:30:00Z"); err != nil {
		t.Errorf("RFC3339 should parse: %v", err)
	}
	if _, err := ParseTimestamp("2024-03-15 14:30:00"); err != nil {
		t.Errorf("space separated format should parse: %v", err)
	}
	direct := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	parsed, err := ParseTimestamp(direct)
	if err != nil || !parsed.Equal(direct) {
		t.Errorf("time.Time passthrough = %v, %v", parsed, err)
	}
	if _, err := ParseTimestamp("gibberish"); err == nil {
		t.Error("gibberish should not parse")
	}
	if _, err := ParseTimestamp(nil); err == nil {
		t.Error("nil should not parse")
	}
	if _, err := ParseTimestamp(42); err == nil {
		t.Error("numeric timestamp type should not parse")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{" 09:00 ", 540, false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestClockInRange(t *testing.T) {
	// 09:00-17:00
	if !clockInRange(540, 540, 1020) || !clockInRange(1020, 540, 1020) {
		t.Error("bounds should be inclusive")
	}
	if clockInRange(1021, 540, 1020) {
		t.Error("one minute past the end should be out")
	}
	// 22:00-06:00 wraps midnight
	if !clockInRange(1410, 1320, 360) {
		t.Error("23:30 should be inside a night window")
	}
	if !clockInRange(300, 1320, 360) {
		t.Error("05:00 should be inside a night window")
	}
	if clockInRange(720, 1320, 360) {
		t.Error("midday should be outside a night window")
	}
}
