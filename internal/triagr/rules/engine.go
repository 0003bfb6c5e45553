package rules

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/vaibhaw-/TriagR/internal/triagr/geoip"
)

// Event is one pipeline record in decoded JSON form. The rules read a
// fixed set of fields and leave everything else untouched, so records
// with foreign fields pass through annotation unharmed.
type Event = map[string]any

// Engine evaluates the anomaly and risk rules against a configured
// baseline location. Matching is exact: "US" the ISO code, and the full
// subdivision name for the region.
type Engine struct {
	ReferenceIP     string
	ExpectedCountry string
	ExpectedRegion  string
}

// NewEngine builds an engine, defaulting an empty baseline to the
// US/Massachusetts pair the rules historically assumed.
func NewEngine(referenceIP, expectedCountry, expectedRegion string) *Engine {
	if expectedCountry == "" {
		expectedCountry = "US"
	}
	if expectedRegion == "" {
		expectedRegion = "Massachusetts"
	}
	return &Engine{
		ReferenceIP:     referenceIP,
		ExpectedCountry: expectedCountry,
		ExpectedRegion:  expectedRegion,
	}
}

// AnomalousIP reports whether the event's address deviates from the
// baseline. The reference address is always exempt regardless of its
// resolved geo; an unresolved (Unknown) location always deviates.
func (e *Engine) AnomalousIP(evt Event) bool {
	if ip := eventString(evt, "client_ip"); ip != "" && ip == e.ReferenceIP {
		return false
	}
	return geoString(evt, "country") != e.ExpectedCountry ||
		geoString(evt, "region") != e.ExpectedRegion
}

// Suspicious reports the suspicious-activity predicate: a destructive
// operation, or a user whose batch-wide distinct address count exceeds
// the diversity threshold.
func (e *Engine) Suspicious(evt Event, diversity IPDiversity) bool {
	if destructiveOps[eventString(evt, "operation")] {
		return true
	}
	return diversity[eventString(evt, "user_id")] > ipDiversityThreshold
}

// Compromised flags events that are both suspicious and anomalous.
func (e *Engine) Compromised(evt Event, diversity IPDiversity) bool {
	return e.Suspicious(evt, diversity) && e.AnomalousIP(evt)
}

// RiskScore accumulates the additive geography, operation and temporal
// weights for one event.
func (e *Engine) RiskScore(evt Event) int {
	score := 0

	switch country := geoString(evt, "country"); {
	case highRiskCountries[country]:
		score += 3
	case country == geoip.LocalCountry:
		// Private network traffic carries no geography weight.
	case !trustedCountries[country]:
		score += 2
	}

	switch op := eventString(evt, "operation"); {
	case highRiskOps[op]:
		score += 3
	case lowRiskOps[op]:
		score += 1
	}

	if ts, ok := eventTime(evt); ok {
		if h := ts.Hour(); h < 8 || h > 18 {
			score++
		}
		if isWeekend(ts) {
			score++
		}
	}
	return score
}

// RiskLevel maps an additive score onto the coarse level.
func RiskLevel(score int) string {
	switch {
	case score >= 5:
		return RiskHigh
	case score >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AnomalyTypes classifies the event into zero or more labels, falling
// back to General Anomaly when nothing specific matches.
func (e *Engine) AnomalyTypes(evt Event) []string {
	var types []string

	country := geoString(evt, "country")
	if country != e.ExpectedCountry && country != geoip.LocalCountry && e.AnomalousIP(evt) {
		types = append(types, AnomalyGeographic)
	}
	if ts, ok := eventTime(evt); ok {
		if h := ts.Hour(); h < 6 || h > 22 || isWeekend(ts) {
			types = append(types, AnomalyTime)
		}
	}
	op := eventString(evt, "operation")
	if accessPatternOps[op] {
		types = append(types, AnomalyAccess)
	}
	if containsAny(op, failedAuthKeywords) {
		types = append(types, AnomalyFailedAuth)
	}
	if containsAny(op, privilegeKeywords) {
		types = append(types, AnomalyPrivilege)
	}
	if len(types) == 0 {
		types = append(types, AnomalyGeneral)
	}
	return types
}

func eventString(evt Event, key string) string {
	if s, ok := evt[key].(string); ok {
		return s
	}
	return ""
}

// geoString digs into the nested geo block. Missing data reads as Unknown
// so unresolved events score like failed lookups.
func geoString(evt Event, key string) string {
	if geo, ok := evt["geo"].(map[string]any); ok {
		if s, ok := geo[key].(string); ok && s != "" {
			return s
		}
	}
	return geoip.UnknownField
}

// eventTime extracts the event clock. NDJSON round-trips leave a string;
// in-process callers may hand over time.Time directly.
func eventTime(evt Event) (time.Time, bool) {
	switch v := evt["timestamp"].(type) {
	case time.Time:
		return v, true
	case string:
		ts, err := dateparse.ParseAny(v)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	default:
		return time.Time{}, false
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
