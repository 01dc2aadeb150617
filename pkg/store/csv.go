// Package store persists fund records as CSV and combines CSV files into
// a single Parquet dataset.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
)

// ErrNoHeader is returned when a CSV input has no header row.
var ErrNoHeader = errors.New("store: csv has no header")

// WriteCSV writes the fixed header followed by one row per record.
// Absent values are written as empty cells.
func WriteCSV(w io.Writer, records []fund.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fund.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, 0, len(fund.Fields)+2)
	for i := range records {
		row = row[:0]
		row = append(row, records[i].Name, records[i].URL)
		for _, f := range fund.Fields {
			row = append(row, formatCell(records[i].Get(f)))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes records to path, replacing any existing file.
func WriteCSVFile(path string, records []fund.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteCSV(f, records)
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ReadCSV reads records written by WriteCSV. Columns are matched by header
// name, so column order does not matter and unknown columns are ignored.
// Empty or unparsable metric cells read as absent.
func ReadCSV(r io.Reader) ([]fund.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []fund.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		rec := fund.Record{Name: cell(row, fund.NameColumn), URL: cell(row, fund.URLColumn)}
		for _, f := range fund.Fields {
			rec.Set(f, parseCell(cell(row, string(f))))
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseCell(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return fund.Value(v)
}
