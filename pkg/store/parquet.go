package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
)

// Conversion errors.
var (
	ErrNoCSV  = errors.New("store: no csv files found")
	ErrNoData = errors.New("store: no readable csv files")
)

// categoryPrefix is stripped from CSV file names to form the category.
const categoryPrefix = "etmoney_"

// Row is one fund in the combined Parquet dataset.
type Row struct {
	FundName             *string  `parquet:"fund_name,optional"`
	FundURL              *string  `parquet:"fund_url,optional"`
	FundAgeYears         *float64 `parquet:"fund_age_years,optional"`
	AUMCrore             *float64 `parquet:"aum_cr,optional"`
	ExpenseRatio         *float64 `parquet:"expense_ratio,optional"`
	Alpha                *float64 `parquet:"alpha,optional"`
	Sharpe               *float64 `parquet:"sharpe,optional"`
	Beta                 *float64 `parquet:"beta,optional"`
	StdDev               *float64 `parquet:"sd,optional"`
	LargeCapPct          *float64 `parquet:"large_cap_pct,optional"`
	MidCapPct            *float64 `parquet:"mid_cap_pct,optional"`
	SmallCapPct          *float64 `parquet:"small_cap_pct,optional"`
	OtherCapPct          *float64 `parquet:"other_cap_pct,optional"`
	Return1M             *float64 `parquet:"return_1m,optional"`
	Return3M             *float64 `parquet:"return_3m,optional"`
	Return6M             *float64 `parquet:"return_6m,optional"`
	Return1Y             *float64 `parquet:"return_1y,optional"`
	Return3Y             *float64 `parquet:"return_3y,optional"`
	Return5Y             *float64 `parquet:"return_5y,optional"`
	ReturnSinceInception *float64 `parquet:"return_since_inception,optional"`
	FundCategory         string   `parquet:"fund_category"`
}

// NewRow converts a record into a Parquet row for category.
func NewRow(r fund.Record, category string) Row {
	return Row{
		FundName:             optionalString(r.Name),
		FundURL:              optionalString(r.URL),
		FundAgeYears:         r.AgeYears,
		AUMCrore:             r.AUMCrore,
		ExpenseRatio:         r.ExpenseRatio,
		Alpha:                r.Alpha,
		Sharpe:               r.Sharpe,
		Beta:                 r.Beta,
		StdDev:               r.StdDev,
		LargeCapPct:          r.LargeCapPct,
		MidCapPct:            r.MidCapPct,
		SmallCapPct:          r.SmallCapPct,
		OtherCapPct:          r.OtherCapPct,
		Return1M:             r.Return1M,
		Return3M:             r.Return3M,
		Return6M:             r.Return6M,
		Return1Y:             r.Return1Y,
		Return3Y:             r.Return3Y,
		Return5Y:             r.Return5Y,
		ReturnSinceInception: r.ReturnSinceInception,
		FundCategory:         category,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CategoryFromPath derives a fund category from a CSV file name,
// e.g. "output/etmoney_largecap.csv" becomes "largecap".
func CategoryFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(stem, categoryPrefix, "")
}

// Summary describes a finished conversion.
type Summary struct {
	Skipped    []string // files that could not be read
	Files      int      // files converted
	Rows       int
	Categories int
}

// ConvertToParquet combines every CSV file in dir into one Parquet file at
// out, tagging each row with the category named by its file. Unreadable
// files are skipped and reported in the summary.
func ConvertToParquet(dir, out string, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("input folder: %w", err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("input folder %s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return Summary{}, fmt.Errorf("list csv files: %w", err)
	}
	if len(files) == 0 {
		return Summary{}, fmt.Errorf("%s: %w", dir, ErrNoCSV)
	}
	sort.Strings(files)
	logger.Info("found csv files to convert", "count", len(files), "dir", dir)

	var (
		sum        Summary
		rows       []Row
		categories = make(map[string]bool)
	)
	for _, path := range files {
		records, err := readCSVFile(path)
		if err != nil {
			logger.Error("skipping unreadable csv", "file", filepath.Base(path), "error", err)
			sum.Skipped = append(sum.Skipped, path)
			continue
		}
		category := CategoryFromPath(path)
		for i := range records {
			rows = append(rows, NewRow(records[i], category))
		}
		categories[category] = true
		sum.Files++
		logger.Info("read csv", "file", filepath.Base(path), "rows", len(records), "category", category)
	}

	if sum.Files == 0 {
		return sum, ErrNoData
	}

	if err := parquet.WriteFile(out, rows); err != nil {
		return sum, fmt.Errorf("write %s: %w", out, err)
	}

	sum.Rows = len(rows)
	sum.Categories = len(categories)
	logger.Info("created parquet file", "file", out, "rows", sum.Rows, "categories", sum.Categories)
	return sum, nil
}

// ReadParquet reads rows written by ConvertToParquet.
func ReadParquet(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func readCSVFile(path string) ([]fund.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only
	return ReadCSV(f)
}
