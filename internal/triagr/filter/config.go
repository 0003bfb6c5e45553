package filter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads and validates a YAML filter configuration.
//
// Example file:
//
//	risk_levels: [High, Medium]
//	excluded_countries: [RU, KP]
//	time_filter: outside_business_hours
//	ip_filters: [cross_country]
func LoadConfig(path string) (*FilterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter config: %w", err)
	}
	var cfg FilterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse filter config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter config: %w", err)
	}
	return &cfg, nil
}

// MergeOptions layers CLI flag values over a loaded configuration. List
// flags replace the file's lists when set; boolean and enum flags only
// override when they carry a non-zero value.
func MergeOptions(cfg *FilterConfig, opts FilterOptions) *FilterConfig {
	if cfg == nil {
		cfg = &FilterConfig{}
	}
	merged := *cfg
	if len(opts.RiskLevels) > 0 {
		merged.RiskLevels = opts.RiskLevels
	}
	if len(opts.AnomalyTypes) > 0 {
		merged.AnomalyTypes = opts.AnomalyTypes
	}
	if len(opts.ExcludedCountries) > 0 {
		merged.ExcludedCountries = opts.ExcludedCountries
	}
	if opts.TimeFilter != "" {
		merged.TimeFilter = opts.TimeFilter
	}
	if opts.StartTime != "" {
		merged.StartTime = opts.StartTime
	}
	if opts.EndTime != "" {
		merged.EndTime = opts.EndTime
	}
	if len(opts.IPFilters) > 0 {
		merged.IPFilters = opts.IPFilters
	}
	if opts.CompromisedOnly {
		merged.CompromisedOnly = true
	}
	return &merged
}
