// Package i18nhttp resolves the active storefront locale for HTTP requests.
//
// Resolve is the single source of truth: the request interceptor uses it to
// redirect and persist path-embedded locales, and views use it to pick the
// locale they render with.
package i18nhttp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/platform/i18n"
)

// CookieName stores the persisted locale for the whole site.
const CookieName = "NEXT_LOCALE"

// CookieMaxAge keeps the locale preference for one year.
const CookieMaxAge = 365 * 24 * time.Hour

// Resolution is the outcome of resolving one request path and cookie.
type Resolution struct {
	// Locale is always one of the supported locales.
	Locale i18n.Locale
	// RoutePath is the path with any locale segment stripped.
	RoutePath string
	// Prefixed reports whether the locale came from the first path segment.
	Prefixed bool
	// WriteCookie asks the caller to persist Locale because the cookie differs.
	WriteCookie bool
}

// Resolve picks a locale from the path prefix, then the cookie, then the
// default. It performs no I/O and is deterministic in its two inputs.
func Resolve(path string, cookie string) Resolution {
	if path == "" {
		path = "/"
	}
	segment, rest := splitFirstSegment(path)
	if loc, ok := i18n.Parse(segment); ok {
		return Resolution{
			Locale:      loc,
			RoutePath:   rest,
			Prefixed:    true,
			WriteCookie: cookie != string(loc),
		}
	}
	if loc, ok := i18n.Parse(cookie); ok {
		return Resolution{Locale: loc, RoutePath: path}
	}
	return Resolution{Locale: i18n.Default, RoutePath: path}
}

// splitFirstSegment returns the first path segment and the remainder, which
// keeps its leading slash and falls back to "/".
func splitFirstSegment(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, found := strings.Cut(trimmed, "/")
	if !found {
		return segment, "/"
	}
	return segment, "/" + rest
}

// CookieValue returns the raw locale cookie value, or "" when absent.
func CookieValue(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

// ResolveRequest resolves the locale for r.
func ResolveRequest(r *http.Request) Resolution {
	if r == nil || r.URL == nil {
		return Resolve("/", "")
	}
	return Resolve(r.URL.Path, CookieValue(r))
}

// SetLocaleCookie persists loc on the response.
func SetLocaleCookie(w http.ResponseWriter, loc i18n.Locale) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(loc),
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

type localeContextKey struct{}

// WithLocale stores the resolved locale on ctx.
func WithLocale(ctx context.Context, loc i18n.Locale) context.Context {
	return context.WithValue(ctx, localeContextKey{}, loc)
}

// LocaleFromContext returns the locale stored by WithLocale.
func LocaleFromContext(ctx context.Context) (i18n.Locale, bool) {
	if ctx == nil {
		return "", false
	}
	loc, ok := ctx.Value(localeContextKey{}).(i18n.Locale)
	return loc, ok && loc.Valid()
}

// LocaleFromRequest returns the locale the interceptor stored, resolving it
// again from the request when the interceptor did not run.
func LocaleFromRequest(r *http.Request) i18n.Locale {
	if r == nil {
		return i18n.Default
	}
	if loc, ok := LocaleFromContext(r.Context()); ok {
		return loc
	}
	return ResolveRequest(r).Locale
}

// LanguageOption is one entry in the language switcher.
type LanguageOption struct {
	Locale i18n.Locale
	Label  string
	URL    string
	Active bool
}

var nativeLabels = map[i18n.Locale]string{
	i18n.English:  "English",
	i18n.Spanish:  "Español",
	i18n.Chinese:  "中文",
	i18n.Japanese: "日本語",
}

// LanguageOptions builds switcher links that prefix the current route with
// each locale. The interceptor turns those into a cookie write and redirect.
func LanguageOptions(active i18n.Locale, routePath string, rawQuery string) []LanguageOption {
	options := make([]LanguageOption, 0, len(i18n.Supported()))
	for _, loc := range i18n.Supported() {
		options = append(options, LanguageOption{
			Locale: loc,
			Label:  nativeLabels[loc],
			URL:    LocalizedURL(loc, routePath, rawQuery),
			Active: loc == active,
		})
	}
	return options
}

// LocalizedURL returns routePath prefixed with loc.
func LocalizedURL(loc i18n.Locale, routePath string, rawQuery string) string {
	routePath = strings.TrimSpace(routePath)
	if routePath == "" || routePath == "/" {
		routePath = ""
	}
	u := url.URL{Path: "/" + string(loc) + routePath, RawQuery: rawQuery}
	return u.String()
}
