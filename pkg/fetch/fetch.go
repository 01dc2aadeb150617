// Package fetch retrieves fund and category pages. Pages come from a plain
// HTTP fetch first; when that yields an unrendered shell, a headless
// browser is asked for the page instead.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
	"github.com/codeGROOVE-dev/fundscrape/pkg/httpcache"
	"github.com/codeGROOVE-dev/fundscrape/pkg/render"
)

// Getter performs the light HTTP fetch. *httpcache.Fetcher implements it.
type Getter interface {
	GetValidated(ctx context.Context, url string, validator httpcache.ResponseValidator) ([]byte, error)
}

// Renderer performs the heavier, JavaScript-executing fetch.
// *browser.Renderer implements it.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Fetcher retrieves pages. It is safe for concurrent use if its Getter and
// Renderer are.
type Fetcher struct {
	light    Getter
	renderer Renderer
	cache    httpcache.Cacher
	policy   render.Policy
	logger   *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRenderer enables the browser fallback.
func WithRenderer(r Renderer) Option {
	return func(f *Fetcher) { f.renderer = r }
}

// WithPolicy replaces the render-completeness policy.
func WithPolicy(p render.Policy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithRenderCache caches rendered pages.
func WithRenderCache(c httpcache.Cacher) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher around light.
func New(light Getter, opts ...Option) *Fetcher {
	f := &Fetcher{
		light:  light,
		policy: render.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page fetches a fund page. The returned Page is always usable: on failure
// it is marked failed and the error says why. A light page that looks
// unrendered is replaced by the browser's version when one is available;
// if rendering fails the light page is kept.
func (f *Fetcher) Page(ctx context.Context, url string) (fund.Page, error) {
	complete := func(b []byte) bool { return !f.policy.NeedsHeavierFetch(string(b)) }

	body, err := f.light.GetValidated(ctx, url, complete)
	if err != nil {
		return fund.Failed(url), fmt.Errorf("fetch %s: %w", url, err)
	}

	html := string(body)
	if f.renderer != nil && f.policy.NeedsHeavierFetch(html) {
		f.logger.Warn("content appears JS-rendered, falling back to browser", "url", url)
		rendered, err := f.render(ctx, url)
		switch {
		case err != nil:
			f.logger.Error("browser fallback failed, keeping plain page", "url", url, "error", err)
		case rendered != "":
			html = rendered
		}
	}

	return fund.Page{URL: url, HTML: html, Status: fund.StatusOK}, nil
}

// Category fetches a category listing. If the light fetch fails the browser
// is tried before giving up.
func (f *Fetcher) Category(ctx context.Context, url string) (string, error) {
	body, lightErr := f.light.GetValidated(ctx, url, nil)
	if lightErr == nil && len(body) > 0 {
		return string(body), nil
	}
	if lightErr == nil {
		lightErr = errors.New("empty response")
	}
	if f.renderer == nil {
		return "", fmt.Errorf("fetch %s: %w", url, lightErr)
	}

	f.logger.Error("failed to fetch category page, trying browser", "url", url, "error", lightErr)
	html, err := f.render(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, errors.Join(lightErr, err))
	}
	return html, nil
}

// render asks the renderer for url, going through the render cache if set.
func (f *Fetcher) render(ctx context.Context, url string) (string, error) {
	if f.cache == nil {
		return f.renderer.Render(ctx, url)
	}
	data, err := f.cache.GetSet(ctx, "render:"+httpcache.URLToKey(url), func(ctx context.Context) ([]byte, error) {
		html, err := f.renderer.Render(ctx, url)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	}, f.cache.TTL())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
