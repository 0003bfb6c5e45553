package filter

import (
	"sort"
	"time"
)

// IPSummaryEntry rolls up all activity for one client address. The geo
// fields come from the first event seen for the address; within one run
// the resolver caches, so every event of an address agrees anyway.
type IPSummaryEntry struct {
	IP          string   `json:"ip"`
	Count       int      `json:"count"`
	Country     string   `json:"country"`
	Region      string   `json:"region"`
	City        string   `json:"city"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Operations  []string `json:"operations"`
	Users       []string `json:"users"`
	IsAnomalous bool     `json:"is_anomalous"`
	FirstSeen   string   `json:"first_seen,omitempty"`
	LastSeen    string   `json:"last_seen,omitempty"`
}

// BuildIPSummary aggregates the event set per client address, skipping the
// N/A sentinel. Entries come back sorted by count (descending) then by
// address, with operations and users sorted for stable output.
func BuildIPSummary(events []Event) []IPSummaryEntry {
	type acc struct {
		entry      IPSummaryEntry
		operations map[string]struct{}
		users      map[string]struct{}
		first      *time.Time
		last       *time.Time
	}
	byIP := make(map[string]*acc)
	var order []string

	for _, e := range events {
		ip, ok := GetString(e, "client_ip")
		if !ok || ip == "" || ip == "N/A" {
			continue
		}
		a := byIP[ip]
		if a == nil {
			a = &acc{
				entry: IPSummaryEntry{
					IP:        ip,
					Country:   GetGeoString(e, "country"),
					Region:    GetGeoString(e, "region"),
					City:      GetGeoString(e, "city"),
					Latitude:  GetGeoFloat(e, "latitude"),
					Longitude: GetGeoFloat(e, "longitude"),
				},
				operations: make(map[string]struct{}),
				users:      make(map[string]struct{}),
			}
			byIP[ip] = a
			order = append(order, ip)
		}
		a.entry.Count++
		if op, ok := GetString(e, "operation"); ok && op != "" {
			a.operations[op] = struct{}{}
		}
		if user, ok := GetString(e, "user_id"); ok && user != "" {
			a.users[user] = struct{}{}
		}
		if anomalous, ok := GetBool(e, "anomalous_ip"); ok && anomalous {
			a.entry.IsAnomalous = true
		}
		if ts, err := ParseTimestamp(e["timestamp"]); err == nil {
			if a.first == nil || ts.Before(*a.first) {
				a.first = &ts
			}
			if a.last == nil || ts.After(*a.last) {
				a.last = &ts
			}
		}
	}

	entries := make([]IPSummaryEntry, 0, len(order))
	for _, ip := range order {
		a := byIP[ip]
		a.entry.Operations = sortedKeys(a.operations)
		a.entry.Users = sortedKeys(a.users)
		if a.first != nil {
			a.entry.FirstSeen = a.first.Format(time.RFC3339)
		}
		if a.last != nil {
			a.entry.LastSeen = a.last.Format(time.RFC3339)
		}
		entries = append(entries, a.entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count == entries[j].Count {
			return entries[i].IP < entries[j].IP
		}
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
