package httpcache

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// UserAgent is the desktop browser User-Agent sent with every request.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 30 * time.Second

// NewRequest builds a GET request carrying browser-like headers.
func NewRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	return req, nil
}

// ProxyFromEnv returns explicit if set, otherwise HTTP_PROXY, otherwise HTTPS_PROXY.
func ProxyFromEnv(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("HTTP_PROXY"); p != "" {
		return p
	}
	return os.Getenv("HTTPS_PROXY")
}

// NewClient creates an HTTP client. An empty proxy means a direct connection;
// jar may be nil.
func NewClient(proxy string, jar http.CookieJar) (*http.Client, error) {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport %T", http.DefaultTransport)
	}
	transport = transport.Clone()
	transport.Proxy = nil

	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy: %w", err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("proxy %q has no host", u.Redacted())
		}
		transport.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
		Jar:       jar,
	}, nil
}
