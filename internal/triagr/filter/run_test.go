package filter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vaibhaw-/TriagR/internal/triagr/rules"
)

func annotated(user, ip, riskLevel string, compromised bool) Event {
	return Event{
		"timestamp":     "2024-03-15T10:00:00Z",
		"operation":     "FileAccessed",
		"user_id":       user,
		"client_ip":     ip,
		"geo":           map[string]any{"country": "US", "region": "Massachusetts"},
		"risk_level":    riskLevel,
		"anomaly_types": []string{"General Anomaly"},
		"compromised":   compromised,
	}
}

func TestApplyStages_EmptyConfigKeepsEverything(t *testing.T) {
	events := []Event{
		annotated("alice", "198.51.100.9", "Low", false),
		annotated("bob", "203.0.113.7", "High", true),
		annotated("carol", "192.0.2.44", "Medium", false),
	}

	survivors := applyStages(events, &FilterConfig{})

	if len(survivors) != 3 {
		t.Fatalf("empty config should keep all events, got %d", len(survivors))
	}
	for i := range events {
		if survivors[i]["user_id"] != events[i]["user_id"] {
			t.Errorf("order changed at %d: %v", i, survivors[i]["user_id"])
		}
	}
}

func TestApplyStages_Intersection(t *testing.T) {
	high := annotated("alice", "203.0.113.7", "High", false)
	high["geo"] = map[string]any{"country": "RU"}
	events := []Event{
		high,
		annotated("bob", "198.51.100.9", "High", false),
		annotated("carol", "192.0.2.44", "Low", false),
	}

	survivors := applyStages(events, &FilterConfig{
		RiskLevels:        []string{"High"},
		ExcludedCountries: []string{"RU"},
	})

	if len(survivors) != 1 || survivors[0]["user_id"] != "bob" {
		t.Fatalf("want only bob (High and not RU), got %v", survivors)
	}
}

// The usage-pattern stage counts over the survivors of the earlier stages,
// not over the raw input. An address repeated in the raw input can still
// be single-use among the survivors.
func TestApplyStages_IPCountsUseSurvivors(t *testing.T) {
	events := []Event{
		annotated("alice", "203.0.113.7", "High", false),
		annotated("alice-again", "203.0.113.7", "Low", false),
		annotated("bob", "198.51.100.9", "High", false),
		annotated("bob-again", "198.51.100.9", "High", false),
	}
	cfg := &FilterConfig{
		RiskLevels: []string{"High"},
		IPFilters:  []string{IPFilterSingleUse},
	}

	survivors := applyStages(events, cfg)

	if len(survivors) != 1 || survivors[0]["user_id"] != "alice" {
		t.Fatalf("want only alice (single use after the risk stage), got %v", survivors)
	}
}

func TestApplyStages_CompromisedOnlyRunsLast(t *testing.T) {
	events := []Event{
		annotated("alice", "203.0.113.7", "High", true),
		annotated("bob", "198.51.100.9", "High", false),
	}
	cfg := &FilterConfig{
		RiskLevels:      []string{"High"},
		CompromisedOnly: true,
	}

	survivors := applyStages(events, cfg)

	if len(survivors) != 1 || survivors[0]["user_id"] != "alice" {
		t.Fatalf("want only the compromised event, got %v", survivors)
	}
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var events []Event
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var evt Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("parse output line %q: %v", line, err)
		}
		events = append(events, evt)
	}
	return events
}

func TestRunFilter_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "events.ndjson")
	output := filepath.Join(dir, "filtered.ndjson")
	ipSummary := filepath.Join(dir, "ips.json")

	writeLines(t, input,
		`{"timestamp":"2024-01-01T03:00:00Z","operation":"SoftDelete","user_id":"alice","client_ip":"203.0.113.5","geo":{"country":"RU","region":"Moscow","city":"Moscow"}}`,
		`{"timestamp":"2024-01-01T09:00:00Z","operation":"FileAccessed","user_id":"alice","client_ip":"192.168.1.160","geo":{"country":"US","region":"Massachusetts","city":"Boston"}}`,
		`this line is not json`,
		`{"timestamp":"2024-01-01T10:00:00Z","operation":"UserLogin","user_id":"bob","client_ip":"198.51.100.9","geo":{"country":"US","region":"Massachusetts","city":"Boston"}}`,
	)

	engine := rules.NewEngine("192.168.1.160", "US", "Massachusetts")
	opts := FilterOptions{
		InputFiles:    []string{input},
		OutputFile:    output,
		RiskLevels:    []string{"High"},
		IPSummaryFile: ipSummary,
	}

	stats, err := RunFilter(opts, engine)
	if err != nil {
		t.Fatalf("RunFilter() = %v", err)
	}
	if stats.InputEvents != 3 || stats.MatchedEvents != 1 || stats.ErrorEvents != 1 {
		t.Errorf("stats = input %d, matched %d, errors %d; want 3, 1, 1",
			stats.InputEvents, stats.MatchedEvents, stats.ErrorEvents)
	}

	events := readEvents(t, output)
	if len(events) != 1 {
		t.Fatalf("want 1 High risk event, got %d", len(events))
	}
	evt := events[0]
	if evt["operation"] != "SoftDelete" {
		t.Errorf("operation = %v", evt["operation"])
	}
	if evt["risk_level"] != "High" {
		t.Errorf("risk_level = %v", evt["risk_level"])
	}
	if evt["compromised"] != true {
		t.Errorf("compromised = %v; SoftDelete from an anomalous address", evt["compromised"])
	}

	data, err := os.ReadFile(ipSummary)
	if err != nil {
		t.Fatalf("read ip summary: %v", err)
	}
	var entries []IPSummaryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parse ip summary: %v", err)
	}
	if len(entries) != 1 || entries[0].IP != "203.0.113.5" {
		t.Fatalf("ip summary should cover the survivors only: %+v", entries)
	}
	if !entries[0].IsAnomalous {
		t.Error("203.0.113.5 should be anomalous in the rollup")
	}
}

func TestRunFilter_AnnotatesUnclassifiedInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "events.ndjson")
	output := filepath.Join(dir, "out.ndjson")

	writeLines(t, input,
		`{"timestamp":"2024-01-01T09:00:00Z","operation":"UserLogin","user_id":"bob","client_ip":"198.51.100.9","geo":{"country":"US","region":"Massachusetts","city":"Boston"}}`,
	)

	engine := rules.NewEngine("", "US", "Massachusetts")
	opts := FilterOptions{InputFiles: []string{input}, OutputFile: output}

	if _, err := RunFilter(opts, engine); err != nil {
		t.Fatalf("RunFilter() = %v", err)
	}

	events := readEvents(t, output)
	if len(events) != 1 {
		t.Fatalf("got %d events", len(events))
	}
	if _, ok := events[0]["risk_level"]; !ok {
		t.Error("filter output should carry rule annotations even without a classify step")
	}
	if _, ok := events[0]["anomaly_types"]; !ok {
		t.Error("anomaly_types missing from output")
	}
}

func TestRunFilter_InvalidOptions(t *testing.T) {
	engine := rules.NewEngine("", "", "")

	_, err := RunFilter(FilterOptions{RiskLevels: []string{"Critical"}}, engine)
	if err == nil || !strings.Contains(err.Error(), "unknown risk level") {
		t.Errorf("RunFilter() = %v, want validation error", err)
	}
}

func TestRunFilter_ConfigFileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "events.ndjson")
	output := filepath.Join(dir, "out.ndjson")
	cfgPath := filepath.Join(dir, "filters.yaml")

	writeLines(t, input,
		`{"timestamp":"2024-01-01T03:00:00Z","operation":"SoftDelete","user_id":"alice","client_ip":"203.0.113.5","geo":{"country":"RU","region":"Moscow","city":"Moscow"}}`,
		`{"timestamp":"2024-01-01T10:00:00Z","operation":"UserLogin","user_id":"bob","client_ip":"198.51.100.9","geo":{"country":"US","region":"Massachusetts","city":"Boston"}}`,
	)
	writeLines(t, cfgPath, "risk_levels: [Low]")

	engine := rules.NewEngine("", "US", "Massachusetts")
	opts := FilterOptions{
		InputFiles: []string{input},
		OutputFile: output,
		ConfigFile: cfgPath,
		RiskLevels: []string{"High"}, // overrides the file's Low
	}

	if _, err := RunFilter(opts, engine); err != nil {
		t.Fatalf("RunFilter() = %v", err)
	}

	events := readEvents(t, output)
	if len(events) != 1 || events[0]["operation"] != "SoftDelete" {
		t.Fatalf("flag override should select High risk only: %v", events)
	}
}
