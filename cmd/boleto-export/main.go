// boleto-export writes the scan history to a CSV or XLSX file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"boleto-tracker/internal/analytics"
	"boleto-tracker/internal/common"
	"boleto-tracker/internal/export"
	"boleto-tracker/internal/repository"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		format  = flag.String("format", "csv", "export format: csv, xlsx or summary")
		out     = flag.String("out", "", "output file path (csv defaults to stdout)")
		fromStr = flag.String("from", "", "from date YYYY-MM-DD")
		toStr   = flag.String("to", "", "to date YYYY-MM-DD")
		period  = flag.String("period", "all", "summary period: all, 30d, 90d or year")
		bank    = flag.String("bank", "all", "summary bank code filter")
	)
	flag.Parse()

	var from, to *time.Time
	if *fromStr != "" {
		parsed, err := time.Parse("2006-01-02", *fromStr)
		if err != nil {
			printError("Error: invalid --from date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		from = &parsed
	}
	if *toStr != "" {
		parsed, err := time.Parse("2006-01-02", *toStr)
		if err != nil {
			printError("Error: invalid --to date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		to = &parsed
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		printError("Error: opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	history := repository.NewHistoryRepository(store, cfg.Scan.HistoryMax, logger)
	svc := export.NewService(history, logger)

	switch *format {
	case "csv":
		w := os.Stdout
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				printError("Error: creating %s: %v\n", *out, err)
				os.Exit(1)
			}
			defer f.Close()
			w = f
		}
		if err := svc.ExportCSV(ctx, w, from, to); err != nil {
			printError("Error: exporting csv: %v\n", err)
			os.Exit(1)
		}
	case "xlsx":
		if *out == "" {
			*out = "boletos.xlsx"
		}
		data, err := svc.ExportXLSX(ctx, from, to)
		if err != nil {
			printError("Error: exporting xlsx: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			printError("Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *out)
	case "summary":
		records, err := history.List(ctx)
		if err != nil {
			printError("Error: listing history: %v\n", err)
			os.Exit(1)
		}
		filter := analytics.Filter{Period: analytics.Period(*period), BankCode: *bank}
		summary := analytics.Summarize(records, filter, time.Now().UTC())
		if err := analytics.Render(os.Stdout, summary); err != nil {
			printError("Error: rendering summary: %v\n", err)
			os.Exit(1)
		}
	default:
		printError("Error: unknown format %q, use csv, xlsx or summary\n", *format)
		os.Exit(1)
	}
}
