// Package auth supplies cookies for requests to the fund site, taken from
// local browser profiles, the environment or a fixed map.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// DefaultDomain is the site whose cookies are looked up by default.
const DefaultDomain = "etmoney.com"

// Source represents a source of cookies.
type Source interface {
	// Cookies returns cookies for domain, or nil if unavailable.
	Cookies(ctx context.Context, domain string) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, domain string, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx, domain)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// NewCookieJar creates a cookie jar holding cookies for domain and its subdomains.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	u, err := url.Parse("https://" + domain)
	if err != nil {
		return nil, fmt.Errorf("parse cookie domain: %w", err)
	}

	httpCookies := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		if value == "" {
			continue
		}
		httpCookies = append(httpCookies, &http.Cookie{
			Name:   name,
			Value:  value,
			Domain: "." + domain,
			Path:   "/",
		})
	}

	jar.SetCookies(u, httpCookies)
	return jar, nil
}
