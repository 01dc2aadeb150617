package httpcache

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// RateLimiter enforces a minimum delay between requests to the same host.
// It is safe for concurrent use.
type RateLimiter struct {
	overrides   map[string]time.Duration
	lastRequest sync.Map // host -> time.Time
	mu          sync.Map // host -> *sync.Mutex
	minDelay    time.Duration
}

// NewRateLimiter creates a limiter that spaces requests to one host by minDelay.
func NewRateLimiter(minDelay time.Duration) *RateLimiter {
	return &RateLimiter{minDelay: minDelay, overrides: make(map[string]time.Duration)}
}

// SetHostDelay overrides the minimum delay for host. Call before first use.
func (r *RateLimiter) SetHostDelay(host string, delay time.Duration) {
	r.overrides[host] = delay
}

// Wait blocks until a request to rawURL's host is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context, rawURL string, logger *slog.Logger) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	host := u.Host

	muI, _ := r.mu.LoadOrStore(host, &sync.Mutex{})
	mu, ok := muI.(*sync.Mutex)
	if !ok {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	delay := r.minDelay
	if override, ok := r.overrides[host]; ok {
		delay = override
	}

	if lastI, ok := r.lastRequest.Load(host); ok {
		if last, ok := lastI.(time.Time); ok {
			if elapsed := time.Since(last); elapsed < delay {
				wait := delay - elapsed
				logger.Debug("rate limit pause", "host", host, "wait", wait.Round(time.Millisecond))
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
		}
	}

	r.lastRequest.Store(host, time.Now())
	return nil
}
