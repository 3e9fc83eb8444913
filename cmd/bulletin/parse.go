package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pricebulletin"
	"github.com/pyhub-apps/pricebulletin/pkg/config"
	"github.com/pyhub-apps/pricebulletin/pkg/ingest"
	"github.com/pyhub-apps/pricebulletin/pkg/log"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <pdf>...",
		Short: "Parse bulletins and print the extracted price records",
		Long: `Parse one or more bulletins and print the extracted price records.

Records without a report date are rejected. Records that share commodity,
market, report date and report type are merged, the later file winning.

Examples:
  bulletin parse bulletin.pdf
  bulletin parse *.pdf --format csv --workers 4
  bulletin parse bulletin.pdf --config bulletin.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
	cmd.Flags().StringP("config", "c", "", "configuration file (YAML or JSON)")
	cmd.Flags().IntP("workers", "w", 0, "pages parsed concurrently (default from config)")
	cmd.Flags().StringP("format", "f", "json", "output format (json, csv)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	workers, _ := cmd.Flags().GetInt("workers")
	format, _ := cmd.Flags().GetString("format")
	level, _ := cmd.Flags().GetString("log-level")

	if format != "json" && format != "csv" {
		return fmt.Errorf("invalid output format: %s (must be one of: json, csv)", format)
	}
	if workers < 0 {
		return fmt.Errorf("invalid workers: %d (must not be negative)", workers)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// An explicit --log-level was already applied by the root command.
	if level == "" {
		log.SetLevel(cfg.LogLevel)
	}

	opts := append(cfg.ParserOptions(), pricebulletin.WithLogger(log.Default))
	if workers > 0 {
		opts = append(opts, pricebulletin.WithWorkers(workers))
	}

	collector := ingest.NewCollector()
	var failed []error
	for _, path := range args {
		start := time.Now()
		res, err := pricebulletin.ParseFile(cmd.Context(), path, opts...)
		if err != nil {
			log.Default.Errorf("%s: %v", path, err)
			failed = append(failed, err)
			continue
		}
		skipped := 0
		for _, p := range res.Pages {
			if p.Skip != pricebulletin.NotSkipped {
				skipped++
			}
		}
		log.Default.Infof("%s: %d pages (%d skipped), %d observations in %v",
			path, len(res.Pages), skipped, len(res.Observations), time.Since(start).Round(time.Millisecond))
		collector.AddFrom(filepath.Base(path), res.Observations...)
	}

	s := collector.Summary()
	log.Default.Infof("processed %d/%d records, %d rejected", s.Processed, s.Total, s.Rejected)

	out := cmd.OutOrStdout()
	switch format {
	case "csv":
		err = writeCSV(out, collector.Records())
	default:
		err = writeJSON(out, collector)
	}
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(failed), len(args), errors.Join(failed...))
	}
	return nil
}

type jsonSummary struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Rejected  int      `json:"rejected"`
	Errors    []string `json:"errors,omitempty"`
}

type jsonOutput struct {
	Records     []ingest.Record    `json:"records"`
	Commodities []ingest.Commodity `json:"commodities"`
	Summary     jsonSummary        `json:"summary"`
}

func writeJSON(w io.Writer, c *ingest.Collector) error {
	s := c.Summary()
	out := jsonOutput{
		Records:     c.Records(),
		Commodities: c.Commodities(),
		Summary:     jsonSummary{Total: s.Total, Processed: s.Processed, Rejected: s.Rejected},
	}
	for _, e := range s.Errors {
		out.Summary.Errors = append(out.Summary.Errors, e.Error())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"report_date", "report_type", "commodity", "category", "unit", "market",
	"price_low", "price_high", "price_prevailing", "price_average", "page", "source",
}

func writeCSV(w io.Writer, records []ingest.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ReportDate.Format("2006-01-02"),
			r.ReportType,
			r.Commodity,
			r.Category,
			r.Unit,
			r.Market,
			formatPrice(r.PriceLow),
			formatPrice(r.PriceHigh),
			formatPrice(r.PricePrevailing),
			formatPrice(r.PriceAverage),
			strconv.Itoa(r.Page),
			r.Source,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
