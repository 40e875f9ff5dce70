package ipc

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseURL parses a batch location. Bare hosts ("lichess.org/abc") are
// treated as https. Only http and https are accepted.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u, nil
	default:
		return nil, fmt.Errorf("unsupported URL %q: only http and https locations are supported", raw)
	}
}
