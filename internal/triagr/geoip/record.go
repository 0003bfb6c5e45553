package geoip

// NoIP is the sentinel used when an audit record carries no client address.
const NoIP = "N/A"

// Sentinel field values. Country is an ISO code; Region the full
// subdivision name. Both historical lookup backends produce that pair, and
// the baseline rules compare against it exactly.
const (
	UnknownField = "Unknown"

	LocalCountry = "Local"
	LocalRegion  = "Network"
	LocalCity    = "Private"
)

// Record is one resolved geolocation.
type Record struct {
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnknownRecord is the full fallback for failed or impossible lookups.
func UnknownRecord() Record {
	return Record{Country: UnknownField, Region: UnknownField, City: UnknownField}
}

// LocalRecord marks private or absent addresses that never reach a backing
// source.
func LocalRecord() Record {
	return Record{Country: LocalCountry, Region: LocalRegion, City: LocalCity}
}

// withDefaults fills individually missing sub-fields so a partially
// populated lookup still yields a complete record.
func (r Record) withDefaults() Record {
	if r.Country == "" {
		r.Country = UnknownField
	}
	if r.Region == "" {
		r.Region = UnknownField
	}
	if r.City == "" {
		r.City = UnknownField
	}
	return r
}
