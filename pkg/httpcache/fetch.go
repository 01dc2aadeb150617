package httpcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// Default retry schedule: three retries after the first attempt, starting
// one second apart and backing off.
const (
	DefaultAttempts   = 4
	DefaultRetryDelay = time.Second
	DefaultHostDelay  = 500 * time.Millisecond
)

// HTTPError represents a non-200 HTTP response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// ResponseValidator validates a response body. Returns true if cacheable.
type ResponseValidator func(body []byte) bool

// Fetcher performs GET requests through an optional cache, with retries and
// per-host rate limiting. It is safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	cache      Cacher
	limiter    *RateLimiter
	logger     *slog.Logger
	attempts   uint
	retryDelay time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client. See NewClient.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithCache enables response caching. A nil Cacher disables it.
func WithCache(c Cacher) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithRateLimiter replaces the per-host rate limiter.
func WithRateLimiter(l *RateLimiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithRetry sets the total attempt count and the initial delay between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(f *Fetcher) {
		f.attempts = max(attempts, 1)
		f.retryDelay = delay
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		logger:     slog.Default(),
		attempts:   DefaultAttempts,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: DefaultTimeout}
	}
	if f.limiter == nil {
		f.limiter = NewRateLimiter(DefaultHostDelay)
	}
	return f
}

// Get fetches rawURL and returns the body of a 200 response.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return f.GetValidated(ctx, rawURL, nil)
}

// GetValidated fetches rawURL like Get. If validator rejects the body it is
// still returned but not cached.
func (f *Fetcher) GetValidated(ctx context.Context, rawURL string, validator ResponseValidator) ([]byte, error) {
	req, err := NewRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	// Authenticated responses are cached apart from anonymous ones.
	cacheKey := rawURL
	if f.client.Jar != nil && len(f.client.Jar.Cookies(req.URL)) > 0 {
		cacheKey += "|auth"
	}

	if f.cache == nil {
		return f.do(ctx, req)
	}

	var fetched bool
	data, err := f.cache.GetSet(ctx, URLToKey(cacheKey), func(ctx context.Context) ([]byte, error) {
		fetched = true
		f.logger.Debug("cache miss", "url", rawURL)
		body, fetchErr := f.do(ctx, req)
		if fetchErr != nil {
			// Permanent HTTP failures are remembered; transient ones are not.
			var httpErr *HTTPError
			if errors.As(fetchErr, &httpErr) && !httpErr.Retryable() {
				return fmt.Appendf(nil, "ERROR:%d", httpErr.StatusCode), nil
			}
			return nil, fetchErr
		}
		if validator != nil && !validator(body) {
			f.logger.Debug("skipping cache due to validation failure", "url", rawURL)
			return nil, &validationError{data: body}
		}
		return body, nil
	}, f.cache.TTL())

	if rec, ok := f.cache.(statsRecorder); ok {
		rec.record(!fetched)
	}
	if !fetched {
		f.logger.Debug("cache hit", "url", rawURL)
	}

	var validErr *validationError
	if errors.As(err, &validErr) {
		return validErr.data, nil
	}
	if err != nil {
		return nil, err
	}

	if code, found := strings.CutPrefix(string(data), "ERROR:"); found {
		status, _ := strconv.Atoi(code) //nolint:errcheck // 0 is acceptable default
		return nil, &HTTPError{StatusCode: status, URL: rawURL}
	}
	return data, nil
}

type validationError struct{ data []byte }

func (*validationError) Error() string { return "validation failed" }

func (f *Fetcher) do(ctx context.Context, req *http.Request) ([]byte, error) {
	rawURL := req.URL.String()
	return retry.DoWithData(
		func() ([]byte, error) {
			if err := f.limiter.Wait(ctx, rawURL, f.logger); err != nil {
				return nil, err
			}

			resp, err := f.client.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close() //nolint:errcheck // intentional

			if resp.StatusCode != http.StatusOK {
				return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("read body: %w", err)
			}
			return body, nil
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.retryDelay),
		retry.MaxJitter(f.retryDelay/4),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Debug("retrying HTTP request", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
}

// isRetryableError returns true for transient errors that should be retried.
func isRetryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Network errors, timeouts, etc. are retryable.
	return true
}
