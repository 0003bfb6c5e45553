package filter

import (
	"testing"
)

func usageEvent(ip, country string) Event {
	return Event{
		"client_ip": ip,
		"geo":       map[string]any{"country": country},
	}
}

func TestBuildIPUsage(t *testing.T) {
	events := []Event{
		usageEvent("203.0.113.7", "CN"),
		usageEvent("203.0.113.7", "CN"),
		usageEvent("203.0.113.7", "RU"),
		usageEvent("198.51.100.9", "US"),
		usageEvent("N/A", "Local"),
	}

	usage := BuildIPUsage(events)

	if got := usage.Count("203.0.113.7"); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if got := usage.CountryCount("203.0.113.7"); got != 2 {
		t.Errorf("CountryCount = %d, want 2", got)
	}
	if got := usage.Count("N/A"); got != 1 {
		t.Errorf("the N/A sentinel should tally like any value, got %d", got)
	}
	if got := usage.Count("192.0.2.1"); got != 0 {
		t.Errorf("unseen address Count = %d, want 0", got)
	}
}

func TestFilterByIPPatterns(t *testing.T) {
	set := []Event{usageEvent("198.51.100.9", "US")}
	for i := 0; i < 11; i++ {
		set = append(set, usageEvent("203.0.113.7", "CN"))
	}
	for i := 0; i < 10; i++ {
		set = append(set, usageEvent("192.0.2.44", "US"))
	}
	set = append(set,
		usageEvent("198.18.0.1", "US"),
		usageEvent("198.18.0.1", "CA"),
	)
	usage := BuildIPUsage(set)

	tests := []struct {
		name    string
		options []string
		event   Event
		want    bool
	}{
		{
			name:    "single use matches the lone address",
			options: []string{IPFilterSingleUse},
			event:   usageEvent("198.51.100.9", "US"),
			want:    true,
		},
		{
			name:    "first time is the same predicate as single use",
			options: []string{IPFilterFirstTime},
			event:   usageEvent("198.51.100.9", "US"),
			want:    true,
		},
		{
			name:    "single use rejects a repeated address",
			options: []string{IPFilterSingleUse},
			event:   usageEvent("203.0.113.7", "CN"),
			want:    false,
		},
		{
			name:    "frequent needs more than ten occurrences",
			options: []string{IPFilterFrequent},
			event:   usageEvent("203.0.113.7", "CN"),
			want:    true,
		},
		{
			name:    "exactly ten occurrences is not frequent",
			options: []string{IPFilterFrequent},
			event:   usageEvent("192.0.2.44", "US"),
			want:    false,
		},
		{
			name:    "cross country matches a roaming address",
			options: []string{IPFilterCrossCountry},
			event:   usageEvent("198.18.0.1", "US"),
			want:    true,
		},
		{
			name:    "cross country rejects a single country address",
			options: []string{IPFilterCrossCountry},
			event:   usageEvent("203.0.113.7", "CN"),
			want:    false,
		},
		{
			name:    "OR within the dimension",
			options: []string{IPFilterSingleUse, IPFilterFrequent},
			event:   usageEvent("203.0.113.7", "CN"),
			want:    true,
		},
		{
			name:    "no client_ip field",
			options: []string{IPFilterSingleUse},
			event:   Event{"operation": "UserLogin"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := FilterByIPPatterns(tt.options, usage)
			got := filter(tt.event)
			if got != tt.want {
				t.Errorf("FilterByIPPatterns(%v) = %v, want %v", tt.options, got, tt.want)
			}
		})
	}
}
