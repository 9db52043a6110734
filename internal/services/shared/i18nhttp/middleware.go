package i18nhttp

import (
	"net/http"
	"strings"
)

// ResolutionHeader tags every intercepted response with the locale decision:
// the path locale code on redirects, "none" otherwise.
const ResolutionHeader = "X-Locale-Resolution"

// ResolutionNone is the header value when no path locale was present.
const ResolutionNone = "none"

// DefaultBypassPrefixes are paths the interceptor never inspects.
var DefaultBypassPrefixes = []string{"/static/", "/metrics", "/healthz", "/favicon.ico"}

// Middleware redirects locale-prefixed paths to their stripped route,
// refreshing the locale cookie when it differs, and stores the resolved
// locale on the request context for everything else.
func Middleware(bypass ...string) func(http.Handler) http.Handler {
	if len(bypass) == 0 {
		bypass = DefaultBypassPrefixes
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil || r.URL == nil || isBypassed(r.URL.Path, bypass) {
				next.ServeHTTP(w, r)
				return
			}
			res := ResolveRequest(r)
			if res.Prefixed {
				w.Header().Set(ResolutionHeader, string(res.Locale))
				if res.WriteCookie {
					SetLocaleCookie(w, res.Locale)
				}
				target := res.RoutePath
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}
			w.Header().Set(ResolutionHeader, ResolutionNone)
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), res.Locale)))
		})
	}
}

func isBypassed(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
