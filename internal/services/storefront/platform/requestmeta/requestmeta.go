// Package requestmeta resolves scheme, origin, and client address for a
// request under an explicit proxy-trust policy.
package requestmeta

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls which proxy headers are trusted.
//
// Forwarded headers are ignored unless TrustForwardedProto is set.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// Origin is a normalized scheme/host/port triple.
type Origin struct {
	Scheme string
	Host   string
	Port   string
}

// Valid reports whether every part of the origin is known.
func (o Origin) Valid() bool {
	return o.Scheme != "" && o.Host != "" && o.Port != ""
}

// IsHTTPS reports whether a request should be treated as HTTPS.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return Scheme(r, policy) == "https"
}

// Scheme returns "http" or "https" for r.
func Scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		if forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded == "http" || forwarded == "https" {
			return forwarded
		}
	}
	if r.URL != nil {
		if scheme := strings.ToLower(strings.TrimSpace(r.URL.Scheme)); scheme == "http" || scheme == "https" {
			return scheme
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// RequestOrigin returns the origin the request was addressed to.
func RequestOrigin(r *http.Request, policy SchemePolicy) Origin {
	if r == nil {
		return Origin{}
	}
	scheme := Scheme(r, policy)
	host, port := splitHost(r.Host)
	if host == "" && r.URL != nil {
		host, port = splitHost(r.URL.Host)
	}
	if port == "" {
		port = defaultPort(scheme)
	}
	return Origin{Scheme: scheme, Host: host, Port: port}
}

// ParseOrigin normalizes an absolute URL (Origin or Referer header value).
func ParseOrigin(raw string) (Origin, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Origin{}, false
	}
	origin := Origin{
		Scheme: strings.ToLower(parsed.Scheme),
		Host:   strings.ToLower(parsed.Hostname()),
		Port:   parsed.Port(),
	}
	if origin.Port == "" {
		origin.Port = defaultPort(origin.Scheme)
	}
	return origin, origin.Valid()
}

// HasSameOriginProof reports whether Origin, or Referer when Origin is
// absent, names the same origin the request was sent to.
func HasSameOriginProof(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	want := RequestOrigin(r, policy)
	if !want.Valid() {
		return false
	}
	raw := strings.TrimSpace(r.Header.Get("Origin"))
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if raw == "" {
		return false
	}
	got, ok := ParseOrigin(raw)
	return ok && got == want
}

// ClientIP returns the best-known client address. X-Forwarded-For is only
// consulted when the policy trusts proxy headers.
func ClientIP(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return ""
	}
}

func splitHost(rawHost string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(rawHost))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}
