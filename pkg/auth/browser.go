package auth

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // register every browser cookie store
	"github.com/browserutils/kooky/browser/firefox"
)

// firefoxProfileGlobs locate Firefox-family cookie databases kooky does not
// discover on its own, relative to $HOME.
var firefoxProfileGlobs = []string{
	filepath.Join("Library", "Application Support", "zen", "Profiles", "*", "cookies.sqlite"),
	filepath.Join("Library", "Application Support", "Firefox", "Profiles", "*", "cookies.sqlite"),
	filepath.Join(".mozilla", "firefox", "*", "cookies.sqlite"),
	filepath.Join("snap", "firefox", "common", ".mozilla", "firefox", "*", "cookies.sqlite"),
}

// BrowserSource reads cookies from local browser cookie stores.
type BrowserSource struct {
	logger *slog.Logger
	home   string
	names  []string
}

// BrowserOption configures a BrowserSource.
type BrowserOption func(*BrowserSource)

// WithCookieNames keeps only the named cookies.
func WithCookieNames(names ...string) BrowserOption {
	return func(s *BrowserSource) { s.names = names }
}

// WithHome overrides the home directory searched for browser profiles.
func WithHome(dir string) BrowserOption {
	return func(s *BrowserSource) { s.home = dir }
}

// NewBrowserSource creates a new browser cookie source.
func NewBrowserSource(logger *slog.Logger, opts ...BrowserOption) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	s := &BrowserSource{logger: logger, home: os.Getenv("HOME")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cookies returns cookies for domain from browser stores. Unreadable stores
// are skipped; finding nothing is not an error.
func (s *BrowserSource) Cookies(ctx context.Context, domain string) (map[string]string, error) {
	s.logger.DebugContext(ctx, "reading browser cookies", "domain", domain)

	if cookies := s.tryFirefoxProfiles(ctx, domain); len(cookies) > 0 {
		return cookies, nil
	}

	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil {
		s.logger.Debug("failed to read browser cookies", "domain", domain, "error", err)
		return nil, nil //nolint:nilnil // failed browser read is not a fatal error
	}
	if len(kookies) == 0 {
		return nil, nil //nolint:nilnil // no browser cookies is not an error
	}
	return s.filter(kookies, domain), nil
}

// tryFirefoxProfiles reads the first Firefox-family profile holding cookies for domain.
func (s *BrowserSource) tryFirefoxProfiles(ctx context.Context, domain string) map[string]string {
	if s.home == "" {
		return nil
	}

	for _, pattern := range firefoxProfileGlobs {
		matches, err := filepath.Glob(filepath.Join(s.home, pattern))
		if err != nil {
			continue
		}
		for _, f := range matches {
			profile := filepath.Base(filepath.Dir(f))
			kookies, err := firefox.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(domain))
			if err != nil {
				s.logger.Debug("failed to read Firefox cookies", "profile", profile, "error", err)
				continue
			}
			if len(kookies) > 0 {
				s.logger.Debug("found Firefox cookies", "profile", profile, "domain", domain, "count", len(kookies))
				return s.filter(kookies, domain)
			}
		}
	}
	return nil
}

// filter converts kooky cookies to a map, keeping only the configured names if any.
func (s *BrowserSource) filter(kookies []*kooky.Cookie, domain string) map[string]string {
	keep := make(map[string]bool, len(s.names))
	for _, n := range s.names {
		keep[n] = true
	}

	cookies := make(map[string]string)
	for _, c := range kookies {
		if len(keep) > 0 && !keep[c.Name] {
			continue
		}
		cookies[c.Name] = c.Value
	}

	if len(keep) > 0 {
		var missing []string
		for _, n := range s.names {
			if _, ok := cookies[n]; !ok {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			s.logger.Info("browser cookies missing", "domain", domain, "keys", strings.Join(missing, ","))
		}
	}
	s.logger.Info("browser cookies found", "domain", domain, "count", len(cookies))
	return cookies
}
