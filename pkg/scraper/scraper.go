// Package scraper drives a category scrape: it lists the funds linked from
// a category page and extracts each fund page into a record.
//
//	s := scraper.New(fetcher, scraper.WithLimit(10))
//	records, err := s.Scrape(ctx, "https://www.etmoney.com/mutual-funds/equity/flexi-cap/79")
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/fundscrape/pkg/extract"
	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
	"github.com/codeGROOVE-dev/fundscrape/pkg/htmlutil"
)

// Scrape errors.
var (
	ErrCategoryFetch = errors.New("category page could not be fetched")
	ErrNoFundLinks   = errors.New("no fund links found on category page")
)

// DefaultSleep is the pause between fund page requests.
const DefaultSleep = 800 * time.Millisecond

// Fetcher retrieves pages. *fetch.Fetcher implements it.
type Fetcher interface {
	Page(ctx context.Context, url string) (fund.Page, error)
	Category(ctx context.Context, url string) (string, error)
}

// Scraper scrapes fund categories one page at a time.
type Scraper struct {
	fetcher   Fetcher
	extractor *extract.Extractor
	logger    *slog.Logger
	sleep     time.Duration
	limit     int
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithSleep sets the pause between fund pages.
func WithSleep(d time.Duration) Option {
	return func(s *Scraper) { s.sleep = d }
}

// WithLimit caps the number of funds scraped. Zero or less means no cap.
func WithLimit(n int) Option {
	return func(s *Scraper) { s.limit = n }
}

// WithExtractor replaces the record extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Scraper) { s.extractor = e }
}

// New creates a Scraper.
func New(f Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:   f,
		extractor: extract.New(),
		logger:    slog.Default(),
		sleep:     DefaultSleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FundLinks returns the fund page URLs linked from a category page, with
// the limit applied.
func (s *Scraper) FundLinks(ctx context.Context, categoryURL string) ([]string, error) {
	s.logger.Info("fetching category page", "url", categoryURL)
	html, err := s.fetcher.Category(ctx, categoryURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCategoryFetch, err)
	}

	doc, err := htmlutil.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCategoryFetch, err)
	}

	links := htmlutil.FundLinks(doc, categoryURL)
	s.logger.Info("found fund links on category page", "count", len(links))
	if len(links) == 0 {
		return nil, ErrNoFundLinks
	}

	if s.limit > 0 && len(links) > s.limit {
		links = links[:s.limit]
		s.logger.Info("limiting funds", "limit", s.limit)
	}
	return links, nil
}

// ScrapeFund fetches and extracts one fund page. It always returns a result;
// fetch failures leave every field absent.
func (s *Scraper) ScrapeFund(ctx context.Context, url string) extract.Result {
	s.logger.Info("scraping fund", "url", url)

	page, err := s.fetcher.Page(ctx, url)
	if err != nil {
		s.logger.Error("failed to fetch content", "url", url, "error", err)
		page = fund.Failed(url)
	}

	res := s.extractor.Extract(page)
	for _, d := range res.Diagnostics {
		s.logger.Warn("extraction problem", "url", url, "detail", d)
	}
	if page.Status == fund.StatusOK && len(res.Unresolved) > 0 {
		s.logger.Warn("missing fields", "url", url, "fields", strings.Join(res.Unresolved, ", "))
	}
	return res
}

// Scrape lists the funds of a category and scrapes each in turn, pausing
// between pages. If ctx is canceled the records gathered so far are
// returned with the context error.
func (s *Scraper) Scrape(ctx context.Context, categoryURL string) ([]fund.Record, error) {
	links, err := s.FundLinks(ctx, categoryURL)
	if err != nil {
		return nil, err
	}

	records := make([]fund.Record, 0, len(links))
	for i, url := range links {
		if i > 0 {
			if err := pause(ctx, s.sleep); err != nil {
				return records, err
			}
		}
		s.logger.Info("processing fund", "n", i+1, "total", len(links))
		records = append(records, s.ScrapeFund(ctx, url).Record)
	}
	return records, nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
