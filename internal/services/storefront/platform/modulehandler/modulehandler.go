// Package modulehandler provides a composable base for storefront module
// handlers.
//
// Every module shares viewer and locale resolution, upstream caller
// context, page rendering, flash notices, and error handling. Modules
// embed Base rather than duplicating that scaffold.
package modulehandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/sirupsen/logrus"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// Base carries the shared request-scoped resolvers used by module handlers.
type Base struct {
	rt module.Runtime
}

// NewBase builds a handler base from the module runtime.
func NewBase(rt module.Runtime) Base {
	return Base{rt: rt}
}

// NewTestBase builds a handler base with an anonymous viewer in the
// default locale.
func NewTestBase() Base {
	return Base{rt: module.Runtime{
		ResolveViewer: func(*http.Request) module.Viewer { return module.Viewer{} },
		ResolveLocale: func(*http.Request) i18n.Locale { return i18n.Default },
	}}
}

// ResolveRequestViewer resolves chrome viewer state for a request.
func (b *Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	return b.rt.Viewer(r)
}

// ResolveRequestLocale returns the effective request locale.
func (b *Base) ResolveRequestLocale(r *http.Request) i18n.Locale {
	return b.rt.Locale(r)
}

// EndRequestSession tears down the browser session, if any.
func (b *Base) EndRequestSession(w http.ResponseWriter, r *http.Request) {
	if b.rt.EndSession != nil {
		b.rt.EndSession(w, r)
	}
}

// RequestCookiePolicy returns the cookie policy for flash and session cookies.
func (b *Base) RequestCookiePolicy() sessioncookie.Policy {
	return b.rt.CookiePolicy
}

// View returns the template view for a request.
func (b *Base) View(r *http.Request) templates.View {
	return pagerender.View(r, b)
}

// T translates key in the request locale.
func (b *Base) T(r *http.Request, key string, args ...any) string {
	return i18n.T(b.ResolveRequestLocale(r).Printer(), key, args...)
}

// RequestUserID returns the signed-in user id, or "".
func (b *Base) RequestUserID(r *http.Request) string {
	if r == nil {
		return ""
	}
	record, ok := session.FromContext(r.Context())
	if !ok {
		return ""
	}
	return strings.TrimSpace(record.UserID)
}

// RequestSessionID returns the browser session id, or "".
func (b *Base) RequestSessionID(r *http.Request) string {
	if r == nil {
		return ""
	}
	record, ok := session.FromContext(r.Context())
	if !ok {
		return ""
	}
	return record.ID
}

// RequestContext returns a context carrying the commerce caller: bearer
// token, locale, and user id for cache scoping.
func (b *Base) RequestContext(r *http.Request) context.Context {
	ctx := httpx.RequestContext(r)
	caller := commerce.Caller{Locale: b.ResolveRequestLocale(r)}
	if record, ok := session.FromContext(ctx); ok {
		caller.Token = record.Token
		caller.UserID = record.UserID
	}
	return commerce.WithCaller(ctx, caller)
}

// RequestContextAndUserID returns the caller context and the raw user id.
func (b *Base) RequestContextAndUserID(r *http.Request) (context.Context, string) {
	return b.RequestContext(r), b.RequestUserID(r)
}

// Logger returns a request-scoped logger.
func (b *Base) Logger(r *http.Request) logrus.FieldLogger {
	logger := b.rt.Log()
	if r == nil {
		return logger
	}
	if requestID := strings.TrimSpace(r.Header.Get(httpx.RequestIDHeader)); requestID != "" {
		return logger.WithField("request_id", requestID)
	}
	return logger
}

// WritePage renders a module page (HTMX-aware) with the given localized
// title and content fragment.
func (b *Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.Logger(r).WithError(err).Error("render page")
	}
}

// WriteFormPage re-renders a rejected form. HTMX only swaps successful
// responses, so HTMX requests get 200 and everything else 422.
func (b *Base) WriteFormPage(w http.ResponseWriter, r *http.Request, title string, fragment templ.Component) {
	statusCode := http.StatusUnprocessableEntity
	if httpx.IsHTMXRequest(r) {
		statusCode = http.StatusOK
	}
	b.WritePage(w, r, title, statusCode, fragment)
}

// WriteError renders a localized module error response.
func (b *Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders a 404 error page within the page shell.
func (b *Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// Flash stores a notice for the next rendered page.
func (b *Base) Flash(w http.ResponseWriter, r *http.Request, notice flash.Notice) {
	flash.Write(w, r, notice, b.rt.CookiePolicy)
}

// Redirect writes an HTMX-aware redirect.
func (b *Base) Redirect(w http.ResponseWriter, r *http.Request, location string) {
	httpx.WriteRedirect(w, r, location)
}

// FlashAndRedirect flashes notice then redirects to location.
func (b *Base) FlashAndRedirect(w http.ResponseWriter, r *http.Request, notice flash.Notice, location string) {
	b.Flash(w, r, notice)
	b.Redirect(w, r, location)
}
