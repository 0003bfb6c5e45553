package filter

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/vaibhaw-/TriagR/internal/triagr/rules"
)

// RunFilter is the main orchestration function for the filter command.
// It resolves the effective configuration (file first, flags on top),
// reads the whole batch, re-annotates it, applies the filter stages in
// their fixed order and writes the survivors as NDJSON. The returned
// Stats cover the finished run; callers fold them into run logs.
//
// The batch is collected in memory rather than streamed: the usage-pattern
// stage counts addresses over the survivors of every earlier stage, which
// cannot be known until the whole input has been seen.
func RunFilter(opts FilterOptions, engine *rules.Engine) (*Stats, error) {
	var cfg *FilterConfig
	if opts.ConfigFile != "" {
		loaded, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg = MergeOptions(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter options: %w", err)
	}

	stats := NewStats()
	var events []Event
	for result := range ReadEvents(opts.InputFiles) {
		if result.Err != nil {
			stats.IncrementError()
			continue
		}
		stats.IncrementInput()
		events = append(events, result.Event)
	}

	// Annotation is idempotent, so the filter works identically on
	// classified streams and on freshly parsed ones.
	engine.Annotate(events)

	survivors := applyStages(events, cfg)

	output, err := openOutput(opts.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}
	if closer, ok := output.(io.Closer); ok {
		defer closer.Close()
	}

	for _, evt := range survivors {
		stats.IncrementMatched(evt)
		// With --summary and no explicit output file, suppress the event
		// stream; only the counts were asked for.
		if !opts.Summary || opts.OutputFile != "" {
			if err := WriteEventNDJSON(output, evt); err != nil {
				return nil, fmt.Errorf("failed to write event: %w", err)
			}
		}
		if opts.Limit > 0 && stats.MatchedEvents >= opts.Limit {
			break
		}
	}

	if opts.Summary {
		stats.PrintSummary(os.Stderr)
	}
	if opts.IPSummaryFile != "" {
		if err := writeIPSummary(opts.IPSummaryFile, BuildIPSummary(survivors)); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// applyStages runs the filter dimensions in their fixed order. Stages one
// through four are per-event predicates; the usage-pattern stage is a
// second pass over their survivors, and the compromised-only restriction
// runs last.
func applyStages(events []Event, cfg *FilterConfig) []Event {
	filters := buildStageFilters(cfg)
	survivors := make([]Event, 0, len(events))
	for _, evt := range events {
		if matchAll(evt, filters) {
			survivors = append(survivors, evt)
		}
	}

	if len(cfg.IPFilters) > 0 {
		usage := BuildIPUsage(survivors)
		survivors = filterSlice(survivors, FilterByIPPatterns(cfg.IPFilters, usage))
	}
	if cfg.CompromisedOnly {
		survivors = filterSlice(survivors, FilterCompromisedOnly())
	}
	return survivors
}

// buildStageFilters translates the configuration into the stage one
// through four predicates:
// 1. Risk level membership
// 2. Anomaly label membership (OR within)
// 3. Country exclusion
// 4. Time window
func buildStageFilters(cfg *FilterConfig) []EventFilter {
	var filters []EventFilter
	if len(cfg.RiskLevels) > 0 {
		filters = append(filters, FilterByRiskLevel(cfg.RiskLevels))
	}
	if len(cfg.AnomalyTypes) > 0 {
		filters = append(filters, FilterByAnomalyTypes(cfg.AnomalyTypes))
	}
	if len(cfg.ExcludedCountries) > 0 {
		filters = append(filters, FilterExcludeCountries(cfg.ExcludedCountries))
	}
	if cfg.TimeFilter != "" && cfg.TimeFilter != TimeFilterNone {
		var start, end int
		if cfg.TimeFilter == TimeFilterCustom {
			// Bounds were validated with the config.
			start, _ = ParseClock(cfg.StartTime)
			end, _ = ParseClock(cfg.EndTime)
		}
		filters = append(filters, FilterByTimeWindow(cfg.TimeFilter, start, end))
	}
	return filters
}

func filterSlice(events []Event, keep EventFilter) []Event {
	filtered := make([]Event, 0, len(events))
	for _, evt := range events {
		if keep(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// openOutput opens the output file or returns stdout.
func openOutput(outputFile string) (io.Writer, error) {
	if outputFile == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputFile, err)
	}
	return file, nil
}

// writeIPSummary writes the per-address rollup as an indented JSON
// document.
func writeIPSummary(path string, entries []IPSummaryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ip summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write ip summary: %w", err)
	}
	return nil
}
