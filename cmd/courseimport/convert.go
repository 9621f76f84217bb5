package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type convertOptions struct {
	dayID   string
	output  string
	pretty  bool
	maxSize string
}

// convertResult is the JSON document written per input file.
type convertResult struct {
	File      string            `json:"file"`
	Schema    importer.Schema   `json:"schema"`
	Format    string            `json:"format"`
	TotalRows int               `json:"totalRows"`
	Dropped   int               `json:"dropped"`
	Records   []importer.Record `json:"records"`
}

func newConvertCmd() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert spreadsheets to JSON records",
		Long: `Convert reads the first worksheet of each file, detects its schema and
prints the records as JSON. One file prints an object; several print an
array in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dayID, "day-id", "", "Day id stamped on every record")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&opts.maxSize, "max-size", "50MiB", "Largest accepted decompressed file, e.g. 20MB")

	return cmd
}

func runConvert(cmd *cobra.Command, files []string, opts convertOptions) error {
	maxBytes, err := humanize.ParseBytes(opts.maxSize)
	if err != nil {
		return fmt.Errorf("invalid --max-size %q: %w", opts.maxSize, err)
	}

	results, err := convertFiles(cmd.Context(), files, opts.dayID, importer.Options{MaxBytes: int64(maxBytes)})
	if err != nil {
		return err
	}

	var doc any = results
	if len(results) == 1 {
		doc = results[0]
	}

	var data []byte
	if opts.pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// convertFiles parses files concurrently. The first failure cancels the rest.
func convertFiles(ctx context.Context, files []string, dayID string, opts importer.Options) ([]convertResult, error) {
	results := make([]convertResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			res, err := importer.ImportFile(ctx, path, dayID, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			slog.Info("converted",
				"file", path,
				"schema", res.Schema.Key(),
				"records", len(res.Records),
				"dropped", res.Dropped,
			)
			results[i] = convertResult{
				File:      path,
				Schema:    res.Schema,
				Format:    res.Format,
				TotalRows: res.TotalRows,
				Dropped:   res.Dropped,
				Records:   res.Records,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
