package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vaibhaw-/TriagR/internal/triagr/config"
	"github.com/vaibhaw-/TriagR/internal/triagr/filter"
	"github.com/vaibhaw-/TriagR/internal/triagr/logger"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter classified events by risk, labels, geography, time and address patterns",
	Long: `Filter selects classified audit events for triage. All configured
criteria must match (logical AND); within a single list criterion any
listed value matches (logical OR).

Criteria apply in a fixed order: risk levels, anomaly labels, excluded
countries, time window, then address-usage patterns computed over the
events that survived the earlier stages. The compromised-only restriction
runs last.

Criteria come from a YAML config file, command line flags, or both; flags
win where both set the same criterion.

Input: NDJSON stream(s) of classified events (classification is applied
on the fly when the input is unclassified)
Output: NDJSON stream of matching events`,
	RunE: runFilter,
}

var (
	filterFlagInputs           []string
	filterFlagOutput           string
	filterFlagConfig           string
	filterFlagRiskLevels       []string
	filterFlagAnomalyTypes     []string
	filterFlagExcludeCountries []string
	filterFlagTimeFilter       string
	filterFlagStartTime        string
	filterFlagEndTime          string
	filterFlagIPFilters        []string
	filterFlagCompromised      bool
	filterFlagSummary          bool
	filterFlagIPSummary        string
	filterFlagLimit            int
)

func init() {
	filterCmd.Flags().StringSliceVar(&filterFlagInputs, "input", nil, "input NDJSON file(s) (default stdin)")
	filterCmd.Flags().StringVar(&filterFlagOutput, "output", "", "output NDJSON file (default stdout)")
	filterCmd.Flags().StringVar(&filterFlagConfig, "filter-config", "", "filter criteria YAML file")
	filterCmd.Flags().StringSliceVar(&filterFlagRiskLevels, "risk-level", nil, "risk levels to keep: low|medium|high")
	filterCmd.Flags().StringSliceVar(&filterFlagAnomalyTypes, "anomaly-type", nil, "anomaly labels to keep")
	filterCmd.Flags().StringSliceVar(&filterFlagExcludeCountries, "exclude-country", nil, "country codes to drop")
	filterCmd.Flags().StringVar(&filterFlagTimeFilter, "time-filter", "", "time window: business_hours_only|outside_business_hours|weekends_only|custom_range")
	filterCmd.Flags().StringVar(&filterFlagStartTime, "start-time", "", "custom range start, HH:MM")
	filterCmd.Flags().StringVar(&filterFlagEndTime, "end-time", "", "custom range end, HH:MM")
	filterCmd.Flags().StringSliceVar(&filterFlagIPFilters, "ip-filter", nil, "address patterns: first_time|single_use|frequent|cross_country")
	filterCmd.Flags().BoolVar(&filterFlagCompromised, "compromised-only", false, "keep only events flagged as compromised")
	filterCmd.Flags().BoolVar(&filterFlagSummary, "summary", false, "print summary statistics to stderr")
	filterCmd.Flags().StringVar(&filterFlagIPSummary, "ip-summary", "", "write per-address summary JSON to file")
	filterCmd.Flags().IntVar(&filterFlagLimit, "limit", 0, "stop after N matching events (0 = no limit)")
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	startTime := time.Now()

	opts := filter.FilterOptions{
		InputFiles:        filterFlagInputs,
		OutputFile:        filterFlagOutput,
		ConfigFile:        filterFlagConfig,
		RiskLevels:        filterFlagRiskLevels,
		AnomalyTypes:      filterFlagAnomalyTypes,
		ExcludedCountries: filterFlagExcludeCountries,
		TimeFilter:        filterFlagTimeFilter,
		StartTime:         filterFlagStartTime,
		EndTime:           filterFlagEndTime,
		IPFilters:         filterFlagIPFilters,
		CompromisedOnly:   filterFlagCompromised,
		Summary:           filterFlagSummary,
		IPSummaryFile:     filterFlagIPSummary,
		Limit:             filterFlagLimit,
	}

	stats, err := filter.RunFilter(opts, engineFromConfig(cfg))
	if err != nil {
		return err
	}

	if err := writeFilterRunLog(cfg, stats, startTime); err != nil {
		logger.L().Warnw("Failed to write run log summary", "error", err)
	}
	return nil
}

// writeFilterRunLog appends a summary entry to the run log file
func writeFilterRunLog(cfg *config.Config, stats *filter.Stats, startTime time.Time) error {
	if cfg.Logging.RunLog == "" {
		return nil // No run log configured
	}

	summary := map[string]interface{}{
		"stage":    "filter",
		"ts":       startTime.Format(time.RFC3339),
		"counters": stats.GetSummaryMap(),
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
