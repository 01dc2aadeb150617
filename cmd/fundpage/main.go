// Command fundpage extracts one or more fund pages and prints the records
// as JSON, along with the fields that could not be found.
//
// Usage:
//
//	fundpage https://www.etmoney.com/mutual-funds/parag-parikh-flexi-cap-fund-direct-growth/228
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/fundscrape/pkg/browser"
	"github.com/codeGROOVE-dev/fundscrape/pkg/extract"
	"github.com/codeGROOVE-dev/fundscrape/pkg/fetch"
	"github.com/codeGROOVE-dev/fundscrape/pkg/httpcache"
	"github.com/codeGROOVE-dev/fundscrape/pkg/scraper"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	proxy := flag.String("proxy", "", "proxy URL (falls back to HTTP_PROXY/HTTPS_PROXY)")
	noCache := flag.Bool("no-cache", false, "disable the on-disk page cache")
	cacheTTL := flag.Duration("cache-ttl", 24*time.Hour, "page cache time-to-live")
	noRender := flag.Bool("no-render", false, "never fall back to a headless browser")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fundpage [options] <fund-url> [<fund-url>...]")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	proxyURL := httpcache.ProxyFromEnv(*proxy)
	client, err := httpcache.NewClient(proxyURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cache := httpcache.NewNull()
	if !*noCache {
		if disk, err := httpcache.New(*cacheTTL); err != nil {
			logger.Warn("failed to initialize cache, continuing without disk cache", "error", err)
		} else {
			cache = disk
		}
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}()
	lightOpts := []httpcache.Option{httpcache.WithClient(client), httpcache.WithLogger(logger), httpcache.WithCache(cache)}

	fetchOpts := []fetch.Option{fetch.WithLogger(logger)}
	if !*noRender {
		renderer := browser.New(browser.WithLogger(logger), browser.WithProxy(proxyURL), browser.WithUserAgent(httpcache.UserAgent))
		defer func() {
			if err := renderer.Close(); err != nil {
				logger.Warn("failed to close browser", "error", err)
			}
		}()
		fetchOpts = append(fetchOpts, fetch.WithRenderer(renderer))
	}

	s := scraper.New(fetch.New(httpcache.NewFetcher(lightOpts...), fetchOpts...), scraper.WithLogger(logger))

	ctx := context.Background()
	results := make([]extract.Result, 0, flag.NArg())
	for _, u := range flag.Args() {
		if !isURL(u) {
			fmt.Fprintf(os.Stderr, "Error: %q is not a URL\n", u)
			os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
		}
		results = append(results, s.ScrapeFund(ctx, u))
	}

	var out any = results
	if len(results) == 1 {
		out = results[0]
	}
	if err := outputJSON(out); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
