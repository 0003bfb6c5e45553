package filter

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Stats tracks statistics about processed events. The counters feed both
// the human-readable summary and the run log entry.
//
// Fields:
// - InputEvents: total events read (excluding lines that failed to parse)
// - MatchedEvents: events that passed every filter stage
// - ErrorEvents: lines that failed to parse or had I/O errors
// - CompromisedCount / AnomalousIPCount / FilesAccessedCount: security rollups
// - ByOperation / ByCountry / ByRiskLevel / ByAnomalyType: breakdowns over matched events
// - FirstTimestamp / LastTimestamp: time range of matched events
type Stats struct {
	InputEvents        int
	MatchedEvents      int
	ErrorEvents        int
	CompromisedCount   int
	AnomalousIPCount   int
	FilesAccessedCount int
	ByOperation        map[string]int
	ByCountry          map[string]int
	ByRiskLevel        map[string]int
	ByAnomalyType      map[string]int
	FirstTimestamp     *time.Time
	LastTimestamp      *time.Time

	uniqueUsers map[string]struct{}
	uniqueIPs   map[string]struct{}
}

// NewStats creates a Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ByOperation:   make(map[string]int),
		ByCountry:     make(map[string]int),
		ByRiskLevel:   make(map[string]int),
		ByAnomalyType: make(map[string]int),
		uniqueUsers:   make(map[string]struct{}),
		uniqueIPs:     make(map[string]struct{}),
	}
}

// IncrementInput counts one successfully parsed input event.
func (s *Stats) IncrementInput() {
	s.InputEvents++
}

// IncrementError counts one unparseable line or I/O failure.
func (s *Stats) IncrementError() {
	s.ErrorEvents++
}

// IncrementMatched counts one event that passed every filter stage and
// folds it into all breakdowns.
func (s *Stats) IncrementMatched(e Event) {
	s.MatchedEvents++

	if op, ok := GetString(e, "operation"); ok && op != "" {
		s.ByOperation[op]++
		if op == "FileAccessed" {
			s.FilesAccessedCount++
		}
	}
	s.ByCountry[GetGeoString(e, "country")]++
	if riskLevel, ok := GetString(e, "risk_level"); ok {
		s.ByRiskLevel[riskLevel]++
	}
	if labels, ok := GetStringSlice(e, "anomaly_types"); ok {
		for _, label := range labels {
			s.ByAnomalyType[label]++
		}
	}
	if compromised, ok := GetBool(e, "compromised"); ok && compromised {
		s.CompromisedCount++
	}
	if anomalous, ok := GetBool(e, "anomalous_ip"); ok && anomalous {
		s.AnomalousIPCount++
	}
	if user, ok := GetString(e, "user_id"); ok && user != "" {
		s.uniqueUsers[user] = struct{}{}
	}
	if ip, ok := GetString(e, "client_ip"); ok && ip != "" {
		s.uniqueIPs[ip] = struct{}{}
	}

	if timestamp, err := ParseTimestamp(e["timestamp"]); err == nil {
		if s.FirstTimestamp == nil || timestamp.Before(*s.FirstTimestamp) {
			s.FirstTimestamp = &timestamp
		}
		if s.LastTimestamp == nil || timestamp.After(*s.LastTimestamp) {
			s.LastTimestamp = &timestamp
		}
	}
}

// UniqueUsers reports the number of distinct user_id values over matched
// events.
func (s *Stats) UniqueUsers() int {
	return len(s.uniqueUsers)
}

// UniqueIPs reports the number of distinct client_ip values over matched
// events. The N/A sentinel counts as a value.
func (s *Stats) UniqueIPs() int {
	return len(s.uniqueIPs)
}

// PrintSummary prints a formatted summary to the writer. Breakdowns are
// sorted by count (descending) then by name (ascending).
func (s *Stats) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Total events processed: %d\n", s.InputEvents)
	if s.ErrorEvents > 0 {
		fmt.Fprintf(w, "  Malformed lines: %d\n", s.ErrorEvents)
	}
	if s.FirstTimestamp != nil && s.LastTimestamp != nil {
		fmt.Fprintf(w, "  Time range: %s to %s\n",
			s.FirstTimestamp.Format(time.RFC3339),
			s.LastTimestamp.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "  Matched: %d\n", s.MatchedEvents)
	fmt.Fprintf(w, "  Compromised: %d\n", s.CompromisedCount)
	fmt.Fprintf(w, "  Anomalous addresses: %d\n", s.AnomalousIPCount)
	fmt.Fprintf(w, "  File accesses: %d\n", s.FilesAccessedCount)
	fmt.Fprintf(w, "  Unique users: %d\n", s.UniqueUsers())
	fmt.Fprintf(w, "  Unique addresses: %d\n", s.UniqueIPs())
	fmt.Fprintf(w, "\n")

	if len(s.ByRiskLevel) > 0 {
		fmt.Fprintf(w, "  By risk level:\n")
		s.printSortedMap(w, s.ByRiskLevel, "    ")
		fmt.Fprintf(w, "\n")
	}
	if len(s.ByAnomalyType) > 0 {
		fmt.Fprintf(w, "  By anomaly type:\n")
		s.printSortedMap(w, s.ByAnomalyType, "    ")
		fmt.Fprintf(w, "\n")
	}
	if len(s.ByOperation) > 0 {
		fmt.Fprintf(w, "  By operation:\n")
		s.printSortedMap(w, s.ByOperation, "    ")
		fmt.Fprintf(w, "\n")
	}
	if len(s.ByCountry) > 0 {
		fmt.Fprintf(w, "  By country:\n")
		s.printSortedMap(w, s.ByCountry, "    ")
	}
}

// printSortedMap prints a map sorted by value (descending) then by key
// (ascending) so equal counts come out in a predictable order.
func (s *Stats) printSortedMap(w io.Writer, m map[string]int, indent string) {
	type kv struct {
		key   string
		value int
	}
	var pairs []kv
	for k, v := range m {
		pairs = append(pairs, kv{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].value == pairs[j].value {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value > pairs[j].value
	})
	for _, pair := range pairs {
		fmt.Fprintf(w, "%s%s: %d\n", indent, pair.key, pair.value)
	}
}

// GetSummaryMap returns the statistics as a map for the run log.
func (s *Stats) GetSummaryMap() map[string]interface{} {
	summary := map[string]interface{}{
		"total_events_processed": s.InputEvents,
		"matched_events":         s.MatchedEvents,
		"error_events":           s.ErrorEvents,
		"compromised_events":     s.CompromisedCount,
		"anomalous_ip_events":    s.AnomalousIPCount,
		"files_accessed":         s.FilesAccessedCount,
		"unique_users":           s.UniqueUsers(),
		"unique_ips":             s.UniqueIPs(),
		"unique_operations":      len(s.ByOperation),
		"by_operation":           s.ByOperation,
		"by_country":             s.ByCountry,
		"by_risk_level":          s.ByRiskLevel,
		"by_anomaly_type":        s.ByAnomalyType,
	}
	if s.FirstTimestamp != nil && s.LastTimestamp != nil {
		summary["time_range"] = map[string]string{
			"start": s.FirstTimestamp.Format(time.RFC3339),
			"end":   s.LastTimestamp.Format(time.RFC3339),
		}
	}
	return summary
}
