package store

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

const header = "fund_name,fund_url,fund_age_years,aum_cr,expense_ratio,alpha,sharpe,beta,sd," +
	"large_cap_pct,mid_cap_pct,small_cap_pct,other_cap_pct," +
	"return_1m,return_3m,return_6m,return_1y,return_3y,return_5y,return_since_inception"

func sampleRecords() []fund.Record {
	return []fund.Record{
		{
			Name:     "Parag Parikh Flexi Cap Fund",
			URL:      "https://www.etmoney.com/mutual-funds/parag-parikh-flexi-cap-fund-direct-growth/228",
			AgeYears: fund.Value(10),
			AUMCrore: fund.Value(87539.45),
			Alpha:    fund.Value(-0.25),
			Return1M: fund.Value(0),
		},
		{URL: "https://www.etmoney.com/mutual-funds/failed/1"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := header + "\n" +
		"Parag Parikh Flexi Cap Fund,https://www.etmoney.com/mutual-funds/parag-parikh-flexi-cap-fund-direct-growth/228,10,87539.45,,-0.25,,,,,,,,0,,,,,,\n" +
		",https://www.etmoney.com/mutual-funds/failed/1,,,,,,,,,,,,,,,,,,\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVQuotesNames(t *testing.T) {
	var buf bytes.Buffer
	recs := []fund.Record{{Name: `Fund, "Growth"`, URL: "u"}}
	if err := WriteCSV(&buf, recs); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"Fund, ""Growth"""`) {
		t.Errorf("name not quoted: %s", buf.String())
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if diff := cmp.Diff(recs, got); diff != "" {
		t.Errorf("ReadCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etmoney_flexicap.csv")
	if err := WriteCSVFile(path, sampleRecords()); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}
	got, err := readCSVFile(path)
	if err != nil {
		t.Fatalf("readCSVFile() error = %v", err)
	}
	if diff := cmp.Diff(sampleRecords(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVTolerant(t *testing.T) {
	in := "\ufefffund_url,beta,extra,fund_name,sharpe\n" +
		"u1,0.9,x,One,None\n" +
		"u2,,y\n"

	got, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	want := []fund.Record{
		{Name: "One", URL: "u1", Beta: fund.Value(0.9)},
		{URL: "u2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Errorf("ReadCSV(\"\") error = %v, want ErrNoHeader", err)
	}
	got, err := ReadCSV(strings.NewReader(header + "\n"))
	if err != nil || len(got) != 0 {
		t.Errorf("header only: ReadCSV() = %v, %v", got, err)
	}
}

func TestCategoryFromPath(t *testing.T) {
	tests := map[string]string{
		"output/etmoney_largecap.csv": "largecap",
		"etmoney_flexicap.csv":        "flexicap",
		"/tmp/midcap.csv":             "midcap",
		"etmoney_.csv":                "",
	}
	for in, want := range tests {
		if got := CategoryFromPath(in); got != want {
			t.Errorf("CategoryFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConvertToParquet(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCSVFile(filepath.Join(dir, "etmoney_flexicap.csv"), sampleRecords()); err != nil {
		t.Fatal(err)
	}
	small := []fund.Record{{Name: "Small", URL: "s", Beta: fund.Value(1.1)}}
	if err := WriteCSVFile(filepath.Join(dir, "etmoney_smallcap.csv"), small); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "zz_broken.csv"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "all_funds.parquet")
	sum, err := ConvertToParquet(dir, out, quiet)
	if err != nil {
		t.Fatalf("ConvertToParquet() error = %v", err)
	}
	wantSum := Summary{Files: 2, Rows: 3, Categories: 2, Skipped: []string{filepath.Join(dir, "zz_broken.csv")}}
	if diff := cmp.Diff(wantSum, sum); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}

	rows, err := ReadParquet(out)
	if err != nil {
		t.Fatalf("ReadParquet() error = %v", err)
	}
	recs := sampleRecords()
	want := []Row{
		NewRow(recs[0], "flexicap"),
		NewRow(recs[1], "flexicap"),
		NewRow(small[0], "smallcap"),
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("parquet rows mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertToParquetErrors(t *testing.T) {
	if _, err := ConvertToParquet(filepath.Join(t.TempDir(), "missing"), "x.parquet", quiet); err == nil {
		t.Error("missing folder should fail")
	}

	empty := t.TempDir()
	if _, err := ConvertToParquet(empty, filepath.Join(empty, "out.parquet"), quiet); !errors.Is(err, ErrNoCSV) {
		t.Errorf("empty folder error = %v, want ErrNoCSV", err)
	}

	broken := t.TempDir()
	if err := os.WriteFile(filepath.Join(broken, "a.csv"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ConvertToParquet(broken, filepath.Join(broken, "out.parquet"), quiet); !errors.Is(err, ErrNoData) {
		t.Errorf("unreadable files error = %v, want ErrNoData", err)
	}
}
