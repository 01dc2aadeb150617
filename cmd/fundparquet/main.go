// Command fundparquet combines the CSV files written by fundscrape into a
// single Parquet file, adding a fund_category column taken from each file
// name (etmoney_largecap.csv becomes "largecap").
//
// Usage:
//
//	fundparquet -in output -out output/all_funds.parquet
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codeGROOVE-dev/fundscrape/pkg/store"
)

func main() {
	in := flag.String("in", "output", "folder containing CSV files")
	out := flag.String("out", "", "output Parquet file (default: <in>/all_funds.parquet)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if *out == "" {
		*out = filepath.Join(*in, "all_funds.parquet")
	}

	sum, err := store.ConvertToParquet(*in, *out, logger)
	if err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}
	if len(sum.Skipped) > 0 {
		logger.Warn("some files were skipped", "files", sum.Skipped)
	}
	logger.Info("conversion complete", "file", *out, "rows", sum.Rows, "files", sum.Files, "categories", sum.Categories)
}
