package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vaibhaw-/TriagR/internal/triagr/config"
	"github.com/vaibhaw-/TriagR/internal/triagr/geoip"
	"github.com/vaibhaw-/TriagR/internal/triagr/logger"
	"github.com/vaibhaw-/TriagR/internal/triagr/normalize"
)

// RunSummary is one appended run-log entry for a parse run.
type RunSummary struct {
	Timestamp     string      `json:"timestamp"`
	RunID         string      `json:"run_id"`
	Input         string      `json:"input"`
	Output        string      `json:"output"`
	RejectFile    string      `json:"reject_file,omitempty"`
	RawCount      int         `json:"raw_count"`
	ParsedCount   int         `json:"parsed_count"`
	RejectedCount int         `json:"rejected_count"`
	Geo           geoip.Stats `json:"geo"`
}

func appendRunLog(path string, summary RunSummary) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(summary)
}

// openRejectFile opens the reject file if configured, returns nil if not
// configured.
func openRejectFile(cfg *config.Config) (io.WriteCloser, error) {
	if cfg == nil || cfg.Output.RejectFile == "" {
		return nil, nil
	}
	return os.OpenFile(cfg.Output.RejectFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// resolveFormat turns the "auto" format into a concrete one using the
// input path's extension. Stdin input carries no extension, so auto cannot
// work there.
func resolveFormat(format, inputPath string) (string, error) {
	if format != "" && format != normalize.FormatAuto {
		return format, nil
	}
	if inputPath == "" {
		return "", fmt.Errorf("cannot auto-detect input format from stdin; set input.format or --format")
	}
	return normalize.DetectFormat(inputPath)
}

// writeRejects appends every skipped row to the reject writer as NDJSON.
func writeRejects(reject io.Writer, skipped []normalize.SkippedRow) error {
	if reject == nil || len(skipped) == 0 {
		return nil
	}
	enc := json.NewEncoder(reject)
	for _, row := range skipped {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode reject row: %w", err)
		}
	}
	return nil
}

// RunParse is the core loop of the parse command, factored out from Cobra
// so it can be unit tested. It loads the whole table, normalizes it
// through the resolver and writes timestamp-ordered events as NDJSON.
// Skipped rows go to the reject file and are counted; a missing required
// column or an input with zero usable rows fails the run.
func RunParse(ctx context.Context, resolver *geoip.Resolver, in io.Reader, out io.Writer, format string, cfg *config.Config) error {
	log := logger.L()
	runID := uuid.NewString()

	var inputPath, outputPath, rejectPath, runLog string
	if cfg != nil {
		inputPath = cfg.Input.FilePath
		outputPath = cfg.Output.FilePath
		rejectPath = cfg.Output.RejectFile
		runLog = cfg.Logging.RunLog
	}
	log.Infow("starting parse run",
		"run_id", runID,
		"input", inputPath,
		"output", outputPath,
		"format", format,
		"reject_file", rejectPath)

	resolved, err := resolveFormat(format, inputPath)
	if err != nil {
		return err
	}
	reader, err := normalize.NewTableReader(resolved)
	if err != nil {
		return err
	}

	rejectFile, err := openRejectFile(cfg)
	if err != nil {
		log.Errorw("failed to open reject file", "path", rejectPath, "err", err.Error())
		return fmt.Errorf("open reject file: %w", err)
	}
	if rejectFile != nil {
		defer rejectFile.Close()
	}

	startTime := time.Now()
	table, err := reader.ReadTable(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.Debugw("loaded input table", "columns", len(table.Headers), "rows", len(table.Rows))

	res, err := normalize.NewNormalizer(resolver, runID).Normalize(ctx, table)
	if err != nil {
		// Reject records are still worth keeping when the whole run comes
		// up empty.
		if errors.Is(err, normalize.ErrNoValidData) && res != nil {
			if werr := writeRejects(rejectFile, res.Skipped); werr != nil {
				log.Errorw("failed to write rejects", "err", werr.Error())
			}
		}
		return err
	}

	enc := json.NewEncoder(out)
	for i := range res.Events {
		if err := enc.Encode(&res.Events[i]); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		if (i+1)%1000 == 0 {
			log.Infow("processing progress",
				"events_written", i+1,
				"rejected_count", len(res.Skipped))
		}
	}
	if err := writeRejects(rejectFile, res.Skipped); err != nil {
		return err
	}

	geoStats := resolver.Stats()
	if runLog != "" {
		summary := RunSummary{
			Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
			RunID:         runID,
			Input:         inputPath,
			Output:        outputPath,
			RejectFile:    rejectPath,
			RawCount:      len(table.Rows),
			ParsedCount:   len(res.Events),
			RejectedCount: len(res.Skipped),
			Geo:           geoStats,
		}
		if err := appendRunLog(runLog, summary); err != nil {
			log.Errorw("failed to write run log", "path", runLog, "err", err.Error())
		}
	}

	duration := time.Since(startTime)
	log.Infow("completed parse run",
		"run_id", runID,
		"duration", duration,
		"raw_count", len(table.Rows),
		"parsed_count", len(res.Events),
		"rejected_count", len(res.Skipped),
		"distinct_addresses", resolver.CacheSize(),
		"geo_source_lookups", geoStats.SourceLookups,
		"geo_source_errors", geoStats.SourceErrors)

	return nil
}
