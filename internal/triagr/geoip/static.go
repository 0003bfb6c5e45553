package geoip

import "github.com/vaibhaw-/TriagR/internal/triagr/config"

// StaticTable builds the first-tier lookup map from configuration: any
// known-IP entries plus the reference address. The reference address is
// written last so a stray known-IP entry cannot shadow it.
func StaticTable(geo config.GeoCfg, known *config.KnownIPTable) map[string]Record {
	table := make(map[string]Record)
	if known != nil {
		for _, entry := range known.KnownIPs {
			table[entry.IP] = Record{
				Country:   entry.Country,
				Region:    entry.Region,
				City:      entry.City,
				Latitude:  entry.Latitude,
				Longitude: entry.Longitude,
			}.withDefaults()
		}
	}
	if geo.ReferenceIP != "" {
		loc := geo.ReferenceLocation
		table[geo.ReferenceIP] = Record{
			Country:   loc.Country,
			Region:    loc.Region,
			City:      loc.City,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		}.withDefaults()
	}
	return table
}
