package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vaibhaw-/TriagR/internal/triagr/config"
	"github.com/vaibhaw-/TriagR/internal/triagr/filter"
	"github.com/vaibhaw-/TriagR/internal/triagr/logger"
	"github.com/vaibhaw-/TriagR/internal/triagr/rules"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify parsed audit events with anomaly flags and risk scores",
	Long: `Classify takes parsed audit events (NDJSON format) and augments them with:
- Anomalous-address detection against the expected location baseline
- Compromise heuristics (destructive operations, address diversity per user)
- Risk scoring and High/Medium/Low risk levels
- Multi-label anomaly categories (geographic, temporal, access pattern, ...)

Address diversity is computed across the whole input, so classify reads the
batch before writing anything.

Input: NDJSON stream of parsed audit events
Output: NDJSON stream of classified events`,
	RunE: runClassify,
}

var (
	classifyFlagInput           string
	classifyFlagOutput          string
	classifyFlagReferenceIP     string
	classifyFlagExpectedCountry string
	classifyFlagExpectedRegion  string
)

func init() {
	classifyCmd.Flags().StringVar(&classifyFlagInput, "input", "", "input NDJSON file (default stdin)")
	classifyCmd.Flags().StringVar(&classifyFlagOutput, "output", "", "output NDJSON file (default stdout)")
	classifyCmd.Flags().StringVar(&classifyFlagReferenceIP, "reference-ip", "", "reference address exempt from anomaly detection (default from config)")
	classifyCmd.Flags().StringVar(&classifyFlagExpectedCountry, "expected-country", "", "expected country code baseline (default from config)")
	classifyCmd.Flags().StringVar(&classifyFlagExpectedRegion, "expected-region", "", "expected region baseline (default from config)")
}

// engineFromConfig builds the rules engine from the loaded config.
func engineFromConfig(cfg *config.Config) *rules.Engine {
	return rules.NewEngine(cfg.Geo.ReferenceIP, cfg.Rules.ExpectedCountry, cfg.Rules.ExpectedRegion)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	startTime := time.Now()

	// Override config with command line flags
	if classifyFlagReferenceIP != "" {
		cfg.Geo.ReferenceIP = classifyFlagReferenceIP
	}
	if classifyFlagExpectedCountry != "" {
		cfg.Rules.ExpectedCountry = classifyFlagExpectedCountry
	}
	if classifyFlagExpectedRegion != "" {
		cfg.Rules.ExpectedRegion = classifyFlagExpectedRegion
	}

	engine := engineFromConfig(cfg)

	logger.L().Infow("Starting classification",
		"input", classifyFlagInput,
		"output", classifyFlagOutput,
		"reference_ip", engine.ReferenceIP,
		"expected_country", engine.ExpectedCountry,
		"expected_region", engine.ExpectedRegion)

	// Setup input reader
	var input io.Reader = os.Stdin
	if classifyFlagInput != "" {
		file, err := os.Open(classifyFlagInput)
		if err != nil {
			return fmt.Errorf("failed to open input file %s: %w", classifyFlagInput, err)
		}
		defer file.Close()
		input = file
		logger.L().Debugw("Reading from input file", "file", classifyFlagInput)
	} else {
		logger.L().Debug("Reading from stdin")
	}

	// Setup output writer
	var output io.Writer = os.Stdout
	if classifyFlagOutput != "" {
		file, err := os.Create(classifyFlagOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", classifyFlagOutput, err)
		}
		defer file.Close()
		output = file
		logger.L().Debugw("Writing to output file", "file", classifyFlagOutput)
	}

	var metrics ClassifyMetrics
	metrics.init()

	// Read the whole batch. Events are maps, so the classified slice and
	// the ordered slice share the same underlying objects.
	var ordered []rules.Event
	var classifiable []rules.Event

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var event rules.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			metrics.ParseErrors++
			logger.L().Warnw("Failed to parse input JSON",
				"line", lineNumber,
				"error", err)

			// Emit an error event instead of dropping the line.
			ordered = append(ordered, classifyErrorEvent(line, fmt.Sprintf("JSON parse error: %v", err)))
			metrics.ErrorEvents++
			continue
		}

		metrics.InputEvents++
		ordered = append(ordered, event)
		classifiable = append(classifiable, event)

		if lineNumber%1000 == 0 {
			logger.L().Infow("reading progress", "lines", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	// Classify in place. Address diversity per user comes from this batch.
	engine.Annotate(classifiable)

	for _, event := range classifiable {
		if level, ok := filter.GetString(event, rules.FieldRiskLevel); ok {
			metrics.RiskLevelCounts[level]++
		}
		if labels, ok := filter.GetStringSlice(event, rules.FieldAnomalyTypes); ok {
			for _, label := range labels {
				metrics.AnomalyTypeCounts[label]++
			}
		}
		if compromised, ok := filter.GetBool(event, rules.FieldCompromised); ok && compromised {
			metrics.CompromisedEvents++
		}
		if anomalous, ok := filter.GetBool(event, rules.FieldAnomalousIP); ok && anomalous {
			metrics.AnomalousIPEvents++
		}
	}

	// Write everything back out in input order, error events included.
	writer := bufio.NewWriter(output)
	defer writer.Flush()
	for i, event := range ordered {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		if _, err := writer.WriteString(string(data) + "\n"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		metrics.OutputEvents++
		if (i+1)%1000 == 0 {
			logger.L().Infow("writing progress", "events", i+1)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	duration := time.Since(startTime)

	logger.L().Infow("Classification completed",
		"duration", duration,
		"input_events", metrics.InputEvents,
		"output_events", metrics.OutputEvents,
		"error_events", metrics.ErrorEvents,
		"parse_errors", metrics.ParseErrors,
		"compromised_events", metrics.CompromisedEvents,
		"anomalous_ip_events", metrics.AnomalousIPEvents,
		"risk_level_counts", metrics.RiskLevelCounts,
		"anomaly_type_counts", metrics.AnomalyTypeCounts)

	if err := writeClassifyRunLog(cfg, metrics, startTime); err != nil {
		logger.L().Warnw("Failed to write run log summary", "error", err)
	}

	return nil
}

// ClassifyMetrics tracks statistics during classification
type ClassifyMetrics struct {
	InputEvents       int            `json:"input_events"`
	OutputEvents      int            `json:"output_events"`
	ErrorEvents       int            `json:"error_events"`
	ParseErrors       int            `json:"parse_errors"`
	CompromisedEvents int            `json:"compromised_events"`
	AnomalousIPEvents int            `json:"anomalous_ip_events"`
	RiskLevelCounts   map[string]int `json:"risk_level_counts"`
	AnomalyTypeCounts map[string]int `json:"anomaly_type_counts"`
}

func (m *ClassifyMetrics) init() {
	if m.RiskLevelCounts == nil {
		m.RiskLevelCounts = make(map[string]int)
	}
	if m.AnomalyTypeCounts == nil {
		m.AnomalyTypeCounts = make(map[string]int)
	}
}

// classifyErrorEvent wraps a line that failed to parse so the stream stays
// lossless through the pipeline.
func classifyErrorEvent(rawLine, message string) rules.Event {
	return rules.Event{
		"event_id":  fmt.Sprintf("error-%d", time.Now().UnixNano()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"operation": "ERROR",
		"raw_line":  rawLine,
		"error": map[string]interface{}{
			"phase":   "classify",
			"message": message,
		},
	}
}

// writeClassifyRunLog appends a summary entry to the run log file
func writeClassifyRunLog(cfg *config.Config, metrics ClassifyMetrics, startTime time.Time) error {
	if cfg.Logging.RunLog == "" {
		return nil // No run log configured
	}
	metrics.init()

	summary := map[string]interface{}{
		"stage": "classify",
		"ts":    startTime.Format(time.RFC3339),
		"counters": map[string]interface{}{
			"input_events":        metrics.InputEvents,
			"output_events":       metrics.OutputEvents,
			"error_events":        metrics.ErrorEvents,
			"compromised_events":  metrics.CompromisedEvents,
			"anomalous_ip_events": metrics.AnomalousIPEvents,
		},
		"risk_level_counts":   metrics.RiskLevelCounts,
		"anomaly_type_counts": metrics.AnomalyTypeCounts,
	}

	file, err := os.OpenFile(cfg.Logging.RunLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open run log file: %w", err)
	}
	defer file.Close()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run log summary: %w", err)
	}
	if _, err := file.WriteString(string(summaryJSON) + "\n"); err != nil {
		return fmt.Errorf("failed to write run log summary: %w", err)
	}
	return nil
}
