// Package module defines the contracts storefront feature modules implement
// and the request-scoped resolvers they share.
package module

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
)

// Viewer is the signed-in identity shown in page chrome.
type Viewer struct {
	Authenticated bool
	UserID        string
	Name          string
	Email         string
}

// DisplayName returns the best label for the navigation bar.
func (v Viewer) DisplayName() string {
	if name := strings.TrimSpace(v.Name); name != "" {
		return name
	}
	return strings.TrimSpace(v.Email)
}

// ResolveViewer resolves the viewer for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveLocale resolves the active locale for a request.
type ResolveLocale func(*http.Request) i18n.Locale

// EndSession tears down the browser session: the stored record and its cookie.
type EndSession func(http.ResponseWriter, *http.Request)

// Mount describes one module's route ownership. Prefix is a subtree
// ("/cart/"); Paths are exact routes ("/cart") served by the same handler.
type Mount struct {
	Prefix  string
	Paths   []string
	Handler http.Handler
}

// Module is one feature area of the storefront.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is implemented by modules that can be degraded.
type HealthReporter interface {
	Healthy() bool
}

// Runtime carries request-scoped resolvers and cookie policy shared by
// every module handler and the page renderer.
type Runtime struct {
	ResolveViewer ResolveViewer
	ResolveLocale ResolveLocale
	EndSession    EndSession
	CookiePolicy  sessioncookie.Policy
	Logger        logrus.FieldLogger
}

// Viewer resolves the request viewer, or an anonymous viewer when no
// resolver is configured.
func (rt Runtime) Viewer(r *http.Request) Viewer {
	if rt.ResolveViewer == nil || r == nil {
		return Viewer{}
	}
	return rt.ResolveViewer(r)
}

// Locale resolves the request locale, or the default.
func (rt Runtime) Locale(r *http.Request) i18n.Locale {
	if rt.ResolveLocale == nil || r == nil {
		return i18n.Default
	}
	loc := rt.ResolveLocale(r)
	if !loc.Valid() {
		return i18n.Default
	}
	return loc
}

// Log returns the configured logger or the logrus standard logger.
func (rt Runtime) Log() logrus.FieldLogger {
	if rt.Logger == nil {
		return logrus.StandardLogger()
	}
	return rt.Logger
}
