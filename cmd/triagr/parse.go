package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaibhaw-/TriagR/internal/triagr/config"
	"github.com/vaibhaw-/TriagR/internal/triagr/runner"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Convert exported audit logs (CSV/XLSX) → NDJSON events",
	RunE:  runParse,
}

var (
	flagInput      string
	flagOutput     string
	flagFormat     string
	flagRejectFile string
)

func init() {
	parseCmd.Flags().StringVar(&flagInput, "input", "", "input file (default stdin)")
	parseCmd.Flags().StringVar(&flagOutput, "output", "", "output file (default stdout)")
	parseCmd.Flags().StringVar(&flagFormat, "format", "", "input format: csv|xlsx|auto (default from config)")
	parseCmd.Flags().StringVar(&flagRejectFile, "reject-file", "", "file to store rejected rows")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	// Override config with command line flags
	if flagInput != "" {
		cfg.Input.FilePath = flagInput
	}
	if flagOutput != "" {
		cfg.Output.FilePath = flagOutput
	}
	if flagFormat != "" {
		cfg.Input.Format = flagFormat
	}
	if flagRejectFile != "" {
		cfg.Output.RejectFile = flagRejectFile
	}

	// Input reader
	var in io.Reader
	if cfg.Input.FilePath == "" {
		in = os.Stdin
	} else {
		f, err := os.Open(cfg.Input.FilePath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	// Output writer
	var out io.Writer
	if cfg.Output.FilePath == "" {
		out = os.Stdout
	} else {
		f, err := os.Create(cfg.Output.FilePath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	// Build the resolver from config (static table, provider)
	resolver, closer, err := buildResolver(cfg)
	if err != nil {
		return fmt.Errorf("create geo resolver: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx := context.Background()

	// Use shared runner
	if err := runner.RunParse(ctx, resolver, in, out, cfg.Input.Format, cfg); err != nil {
		return err
	}

	return nil
}
