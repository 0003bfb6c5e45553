package config

import (
	"fmt"
	"io"
	"net"

	"gopkg.in/yaml.v3"
)

// KnownIP is one statically resolved address: the analyst's own machines,
// office egress IPs, scanners, and similar fixtures that should never reach
// an external geolocation source.
type KnownIP struct {
	IP        string  `yaml:"ip" json:"ip"`
	Label     string  `yaml:"label,omitempty" json:"label,omitempty"`
	Country   string  `yaml:"country" json:"country"`
	Region    string  `yaml:"region" json:"region"`
	City      string  `yaml:"city" json:"city"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
}

// KnownIPTable = the full static table
type KnownIPTable struct {
	KnownIPs []KnownIP `yaml:"known_ips"`
}

// ValidateKnownIPs validates a known-IP table read as YAML.
// Returns the parsed table and the list of addresses it covers.
func ValidateKnownIPs(r io.Reader) (*KnownIPTable, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read known-IP table: %w", err)
	}

	var table KnownIPTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, nil, fmt.Errorf("failed to decode known-IP YAML: %w", err)
	}

	if len(table.KnownIPs) == 0 {
		return nil, nil, fmt.Errorf("known_ips must not be empty")
	}

	seen := make(map[string]int, len(table.KnownIPs))
	var ips []string
	for i := range table.KnownIPs {
		entry := &table.KnownIPs[i]
		if entry.IP == "" {
			return nil, nil, fmt.Errorf("known-IP entry %d missing ip", i)
		}
		if net.ParseIP(entry.IP) == nil {
			return nil, nil, fmt.Errorf("known-IP entry %d has invalid ip %q", i, entry.IP)
		}
		if prev, dup := seen[entry.IP]; dup {
			return nil, nil, fmt.Errorf("known-IP entry %d duplicates entry %d (%s)", i, prev, entry.IP)
		}
		seen[entry.IP] = i

		if entry.Country == "" {
			return nil, nil, fmt.Errorf("known-IP entry %d (%s) missing country", i, entry.IP)
		}
		// Region/city may be unknown for coarse entries; keep the usual sentinel.
		if entry.Region == "" {
			entry.Region = "Unknown"
		}
		if entry.City == "" {
			entry.City = "Unknown"
		}
		ips = append(ips, entry.IP)
	}

	return &table, ips, nil
}
