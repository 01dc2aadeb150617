package auth

import (
	"context"
	"net/http"
	"os"
)

// DefaultCookieEnv holds a Cookie header value, e.g. "a=1; b=2".
const DefaultCookieEnv = "ETMONEY_COOKIE"

// EnvSource reads cookies from an environment variable in Cookie header form.
// The same cookies are returned for every domain.
type EnvSource struct {
	// Var names the variable; empty means DefaultCookieEnv.
	Var string
}

// Cookies returns the cookies held in the environment variable.
func (s EnvSource) Cookies(_ context.Context, _ string) (map[string]string, error) {
	name := s.Var
	if name == "" {
		name = DefaultCookieEnv
	}
	raw := os.Getenv(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // unset variable is not an error
	}

	parsed, err := http.ParseCookie(raw)
	if err != nil {
		return nil, err
	}
	cookies := make(map[string]string, len(parsed))
	for _, c := range parsed {
		cookies[c.Name] = c.Value
	}
	return cookies, nil
}
