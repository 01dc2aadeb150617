// Package extract turns a fetched fund page into a canonical fund record.
//
// Extraction runs in two stages. The embedded __NEXT_DATA__ payload is read
// first; whatever it leaves empty is looked up in the page's visible text.
// Extraction never fails: unusable input yields absent fields, and every
// page produces a record.
//
//	ex := extract.New()
//	res := ex.Extract(fund.Page{URL: u, HTML: body, Status: fund.StatusOK})
//	if len(res.Unresolved) > 0 {
//	    logger.Warn("missing fields", "url", u, "fields", res.Unresolved)
//	}
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
	"github.com/codeGROOVE-dev/fundscrape/pkg/htmlutil"
)

// Result is the outcome of extracting one page.
type Result struct {
	Record fund.Record `json:"record"`
	// Unresolved lists the columns no source could fill, in record order.
	Unresolved []string `json:"unresolved"`
	// Diagnostics carries recovered problems (e.g. a malformed payload)
	// for the caller to log.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Extractor converts pages to records. It holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	now func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used to turn inception dates into fund ages.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract produces a record for page. Failed or empty pages yield a record
// with every field absent.
func (e *Extractor) Extract(page fund.Page) Result {
	if page.Status != fund.StatusOK || strings.TrimSpace(page.HTML) == "" {
		return Assemble(page.URL, fund.Empty(page.URL), fund.Record{})
	}

	var diags []string
	doc, err := htmlutil.Parse(page.HTML)
	if err != nil {
		res := Assemble(page.URL, fund.Empty(page.URL), fund.Record{})
		res.Diagnostics = []string{err.Error()}
		return res
	}

	now := e.now()

	var structured fund.Record
	payload, found, err := LocatePayload(doc)
	if err != nil {
		diags = append(diags, err.Error())
	}
	if found {
		structured = ExtractStructured(payload, now)
	}

	textual := ExtractTextual(htmlutil.VisibleText(doc), structured, now)
	if structured.Name == "" {
		textual.Name = htmlutil.Title(doc)
	}

	res := Assemble(page.URL, structured, textual)
	res.Diagnostics = diags
	return res
}

// nameSuffix is the boilerplate fund pages append to their titles.
var nameSuffix = regexp.MustCompile(`(?i):\s*Latest\s+NAV,?\s*Holdings,?\s*Performance.*$`)

// CleanName strips markup and the trailing page-title boilerplate from a fund name.
func CleanName(name string) string {
	name = htmlutil.StripTags(name)
	return strings.TrimSpace(nameSuffix.ReplaceAllString(name, ""))
}

// Assemble merges the two extraction stages for url. Structured values win
// over textual ones; the URL is always the one given.
func Assemble(url string, structured, textual fund.Record) Result {
	rec := fund.Merge(structured, textual)
	rec.URL = url
	rec.Name = CleanName(rec.Name)
	return Result{
		Record:     rec,
		Unresolved: fund.Unresolved(rec),
	}
}
