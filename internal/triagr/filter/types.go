package filter

import (
	"fmt"
	"strings"
)

// Event represents an annotated audit event as a map of string keys to any
// values. This is the canonical representation after NDJSON unmarshaling.
// All fields from the original record are preserved, including:
// - Core fields: timestamp, operation, user_id, client_ip, result_status
// - Geolocation: nested geo block with country/region/city/coordinates
// - Rule annotations: anomalous_ip, compromised, risk_score, risk_level, anomaly_types
// - Anything else an upstream stage attached (meta, file_name, ...)
type Event = map[string]any

// EventFilter is a function that determines if an event matches certain
// criteria. Filters are composable and combined using AND logic. Each
// filter handles missing fields gracefully (treat as non-match, except
// where fail-open is called out).
type EventFilter func(Event) bool

// EventResult represents the result of reading one event from input. This
// is used for channel communication between the reader and the main loop;
// errors are sent on the channel rather than stopping processing.
type EventResult struct {
	Event Event
	Err   error
}

// Time window modes.
const (
	TimeFilterNone          = "none"
	TimeFilterBusinessHours = "business_hours_only"
	TimeFilterOutsideHours  = "outside_business_hours"
	TimeFilterWeekends      = "weekends_only"
	TimeFilterCustom        = "custom_range"
)

// Address usage patterns for the second-pass filter stage.
const (
	IPFilterFirstTime    = "first_time"
	IPFilterSingleUse    = "single_use"
	IPFilterFrequent     = "frequent"
	IPFilterCrossCountry = "cross_country"
)

var validTimeFilters = map[string]bool{
	TimeFilterNone:          true,
	TimeFilterBusinessHours: true,
	TimeFilterOutsideHours:  true,
	TimeFilterWeekends:      true,
	TimeFilterCustom:        true,
}

var validIPFilters = map[string]bool{
	IPFilterFirstTime:    true,
	IPFilterSingleUse:    true,
	IPFilterFrequent:     true,
	IPFilterCrossCountry: true,
}

var validRiskLevels = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// FilterConfig is the declarative filter configuration. Every dimension is
// optional; an unset dimension places no restriction. The five dimensions
// apply as an intersection, in a fixed order that matters for the
// usage-pattern stage (its counts are taken over the survivors of the
// earlier stages).
type FilterConfig struct {
	RiskLevels        []string `yaml:"risk_levels" json:"risk_levels,omitempty"`
	AnomalyTypes      []string `yaml:"anomaly_types" json:"anomaly_types,omitempty"`
	ExcludedCountries []string `yaml:"excluded_countries" json:"excluded_countries,omitempty"`
	TimeFilter        string   `yaml:"time_filter" json:"time_filter,omitempty"`
	StartTime         string   `yaml:"start_time" json:"start_time,omitempty"`
	EndTime           string   `yaml:"end_time" json:"end_time,omitempty"`
	IPFilters         []string `yaml:"ip_filters" json:"ip_filters,omitempty"`
	CompromisedOnly   bool     `yaml:"compromised_only" json:"compromised_only,omitempty"`
}

// Validate checks enum fields and the custom-range bounds. It normalizes
// nothing; matching later is case-insensitive anyway.
func (c *FilterConfig) Validate() error {
	for _, level := range c.RiskLevels {
		if !validRiskLevels[strings.ToLower(level)] {
			return fmt.Errorf("unknown risk level: %s", level)
		}
	}
	if c.TimeFilter != "" && !validTimeFilters[c.TimeFilter] {
		return fmt.Errorf("unknown time filter: %s", c.TimeFilter)
	}
	if c.TimeFilter == TimeFilterCustom {
		if _, err := ParseClock(c.StartTime); err != nil {
			return fmt.Errorf("custom range start: %w", err)
		}
		if _, err := ParseClock(c.EndTime); err != nil {
			return fmt.Errorf("custom range end: %w", err)
		}
	}
	for _, opt := range c.IPFilters {
		if !validIPFilters[opt] {
			return fmt.Errorf("unknown ip filter: %s", opt)
		}
	}
	return nil
}

// FilterOptions contains all CLI flags for the filter command. The struct
// is populated from Cobra flags and passed to RunFilter; flag values merge
// over anything loaded from a config file.
type FilterOptions struct {
	// Input/Output configuration
	InputFiles []string // Input NDJSON file(s), empty means stdin
	OutputFile string   // Output file path, empty means stdout
	ConfigFile string   // Optional YAML filter configuration

	// Filter dimensions (merged over the config file)
	RiskLevels        []string
	AnomalyTypes      []string
	ExcludedCountries []string
	TimeFilter        string
	StartTime         string
	EndTime           string
	IPFilters         []string
	CompromisedOnly   bool

	// Output options
	Summary       bool   // Print summary counts to stderr
	IPSummaryFile string // Write the per-address rollup as JSON to this path
	Limit         int    // Limit number of output events (0 = no limit)
}
