package filter

// frequentThreshold is the occurrence count above which an address counts
// as frequent.
const frequentThreshold = 10

// IPUsage aggregates address usage over one event set. The usage-pattern
// stage runs after every other dimension, so counts must be built from the
// survivors of those stages, never from the raw input.
type IPUsage struct {
	counts    map[string]int
	countries map[string]map[string]struct{}
}

// BuildIPUsage tallies occurrence counts and associated countries per
// client address. The N/A sentinel tallies like any other value.
func BuildIPUsage(events []Event) *IPUsage {
	usage := &IPUsage{
		counts:    make(map[string]int),
		countries: make(map[string]map[string]struct{}),
	}
	for _, e := range events {
		ip, ok := GetString(e, "client_ip")
		if !ok {
			continue
		}
		usage.counts[ip]++
		country := GetGeoString(e, "country")
		if usage.countries[ip] == nil {
			usage.countries[ip] = make(map[string]struct{})
		}
		usage.countries[ip][country] = struct{}{}
	}
	return usage
}

// Count returns how many events in the set used ip.
func (u *IPUsage) Count(ip string) int {
	return u.counts[ip]
}

// CountryCount returns how many distinct countries ip resolved to within
// the set.
func (u *IPUsage) CountryCount(ip string) int {
	return len(u.countries[ip])
}

// FilterByIPPatterns creates a filter matching events whose address fits
// any of the requested usage patterns (OR within this dimension):
//
//   - first_time / single_use: the address occurs exactly once in the set.
//     Both names select the same predicate; they have never diverged.
//   - frequent: the address occurs more than ten times.
//   - cross_country: the address resolved to more than one country.
//
// An event without a client_ip field is a non-match.
func FilterByIPPatterns(options []string, usage *IPUsage) EventFilter {
	return func(e Event) bool {
		ip, ok := GetString(e, "client_ip")
		if !ok {
			return false // No address = no usage pattern
		}
		for _, opt := range options {
			switch opt {
			case IPFilterFirstTime, IPFilterSingleUse:
				if usage.Count(ip) == 1 {
					return true
				}
			case IPFilterFrequent:
				if usage.Count(ip) > frequentThreshold {
					return true
				}
			case IPFilterCrossCountry:
				if usage.CountryCount(ip) > 1 {
					return true
				}
			}
		}
		return false
	}
}
