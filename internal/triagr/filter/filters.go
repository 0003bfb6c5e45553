package filter

// FilterByRiskLevel creates a filter that matches events with specific
// risk levels.
//
// Examples:
// - FilterByRiskLevel(["High"]) matches only High risk events
// - FilterByRiskLevel(["High", "Medium"]) matches High or Medium
//
// The filter is case-insensitive and treats a missing risk_level field as
// non-match (un-annotated events cannot satisfy a risk restriction).
func FilterByRiskLevel(levels []string) EventFilter {
	return func(e Event) bool {
		riskLevel, ok := GetString(e, "risk_level")
		if !ok {
			return false // No risk_level field = no match
		}
		return matchesAny(riskLevel, levels)
	}
}

// FilterByAnomalyTypes creates a filter that matches events carrying any
// of the requested anomaly labels (OR within this dimension).
//
// Examples:
// - FilterByAnomalyTypes(["Geographic Anomaly"]) matches events labeled geographic
// - FilterByAnomalyTypes(["Time Anomaly", "Privilege Escalation"]) matches either
//
// The filter is case-insensitive and treats a missing or empty
// anomaly_types field as non-match.
func FilterByAnomalyTypes(types []string) EventFilter {
	return func(e Event) bool {
		labels, ok := GetStringSlice(e, "anomaly_types")
		if !ok || len(labels) == 0 {
			return false // No labels = no match
		}
		for _, label := range labels {
			if matchesAny(label, types) {
				return true // Any one matching label is enough
			}
		}
		return false
	}
}

// FilterExcludeCountries creates a filter that drops events whose resolved
// country is on the exclusion list.
//
// Examples:
// - FilterExcludeCountries(["RU"]) drops events geolocated to Russia
// - FilterExcludeCountries(["Unknown"]) drops events whose lookup failed
//
// A missing geo block reads as Unknown, so excluding "Unknown" also drops
// events that never went through the resolver.
func FilterExcludeCountries(countries []string) EventFilter {
	return func(e Event) bool {
		return !matchesAny(GetGeoString(e, "country"), countries)
	}
}

// FilterByTimeWindow creates a filter over the event wall clock per the
// configured mode. start and end are minutes past midnight and only apply
// to the custom range mode; a start later than the end wraps the window
// across midnight (22:00-06:00 night shifts).
//
// Business hours are Monday through Friday, 08:00-17:59.
//
// Events with unparseable timestamps are retained (fail-open) under every
// mode: a record that cannot state its time is never silently dropped by a
// time restriction.
func FilterByTimeWindow(mode string, start, end int) EventFilter {
	return func(e Event) bool {
		ts, err := ParseTimestamp(e["timestamp"])
		if err != nil {
			return true // Fail-open: unparseable time never excludes
		}
		switch mode {
		case TimeFilterBusinessHours:
			return isBusinessHours(ts)
		case TimeFilterOutsideHours:
			return !isBusinessHours(ts)
		case TimeFilterWeekends:
			return isWeekend(ts)
		case TimeFilterCustom:
			return clockInRange(ts.Hour()*60+ts.Minute(), start, end)
		default:
			return true // TimeFilterNone and unknown modes restrict nothing
		}
	}
}

// FilterCompromisedOnly creates a filter that keeps only events the rule
// engine flagged as compromised. A missing compromised field is a
// non-match.
func FilterCompromisedOnly() EventFilter {
	return func(e Event) bool {
		compromised, ok := GetBool(e, "compromised")
		return ok && compromised
	}
}

// matchAll applies all filters to an event using AND logic. An event must
// match ALL filters to be included. With no filters, every event matches.
func matchAll(event Event, filters []EventFilter) bool {
	for _, filter := range filters {
		if !filter(event) {
			return false
		}
	}
	return true
}
