// Package browser renders pages in headless Chromium for sites that build
// their content with JavaScript.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("browser: renderer closed")

// Defaults match a page that finishes its XHR burst within a few seconds.
const (
	DefaultTimeout = 30 * time.Second
	DefaultSettle  = 2 * time.Second
)

// Renderer loads pages in a shared headless Chromium. The browser starts on
// first use; pages are rendered one at a time. Call Close when done.
type Renderer struct {
	logger    *slog.Logger
	pw        *playwright.Playwright
	browser   playwright.Browser
	proxy     string
	userAgent string
	timeout   time.Duration
	settle    time.Duration
	mu        sync.Mutex
	closed    bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithProxy routes browser traffic through proxy.
func WithProxy(proxy string) Option {
	return func(r *Renderer) { r.proxy = proxy }
}

// WithUserAgent sets the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) { r.userAgent = ua }
}

// WithTimeout bounds page navigation.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.timeout = d }
}

// WithSettle sets how long to wait after the network goes idle before
// reading the DOM.
func WithSettle(d time.Duration) Option {
	return func(r *Renderer) { r.settle = d }
}

// New creates a Renderer. No browser is started until Render is called.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		settle:  DefaultSettle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to url, waits for the network to go idle plus the settle
// delay, and returns the serialized DOM.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", ErrClosed
	}
	if err := r.launch(); err != nil {
		return "", err
	}

	bctx, err := r.browser.NewContext(r.contextOptions())
	if err != nil {
		return "", fmt.Errorf("new browser context: %w", err)
	}
	defer func() {
		if err := bctx.Close(); err != nil {
			r.logger.Debug("close browser context", "error", err)
		}
	}()

	page, err := bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}

	start := time.Now()
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(r.timeout.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	if r.settle > 0 {
		page.WaitForTimeout(float64(r.settle.Milliseconds()))
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("read rendered content: %w", err)
	}
	r.logger.Debug("rendered page", "url", url, "bytes", len(content), "duration", time.Since(start).Round(time.Millisecond))
	return content, nil
}

func (r *Renderer) contextOptions() playwright.BrowserNewContextOptions {
	var opts playwright.BrowserNewContextOptions
	if r.userAgent != "" {
		opts.UserAgent = playwright.String(r.userAgent)
	}
	return opts
}

// launch starts Playwright and Chromium if they are not running. r.mu must be held.
func (r *Renderer) launch() error {
	if r.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright (is the driver installed?): %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)}
	if r.proxy != "" {
		launch.Proxy = &playwright.Proxy{Server: r.proxy}
	}
	b, err := pw.Chromium.Launch(launch)
	if err != nil {
		if stopErr := pw.Stop(); stopErr != nil {
			r.logger.Debug("stop playwright", "error", stopErr)
		}
		return fmt.Errorf("launch chromium: %w", err)
	}

	r.logger.Info("headless browser started", "proxy", r.proxy != "")
	r.pw, r.browser = pw, b
	return nil
}

// Close shuts the browser down. It is safe to call more than once.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	var errs []error
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
		r.browser = nil
	}
	if r.pw != nil {
		if err := r.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
		r.pw = nil
	}
	return errors.Join(errs...)
}
