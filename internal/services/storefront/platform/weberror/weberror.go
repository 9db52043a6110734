// Package weberror renders shared error responses for storefront modules.
package weberror

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// SessionExpiredKey is flashed when an upstream 401 ends the session.
const SessionExpiredKey = "core.error.session_expired"

// Dependencies extends the page shell with session teardown.
type Dependencies interface {
	pagerender.Dependencies
	EndRequestSession(http.ResponseWriter, *http.Request)
	RequestCookiePolicy() sessioncookie.Policy
}

// ShouldRenderAppError reports whether status should use app error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc i18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = apperrors.DefaultKey(statusCode)
	}
	if loc != nil {
		if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
			return localized
		}
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes a localized app-shell error page for full-page and
// HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, deps Dependencies) {
	writeAppError(w, r, statusCode, "", deps)
}

func writeAppError(w http.ResponseWriter, r *http.Request, statusCode int, message string, deps Dependencies) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	view := pagerender.View(r, deps)
	if message == "" {
		message = view.T(apperrors.DefaultKey(statusCode))
	}
	fragment := templates.ErrorPage(templates.ErrorView{View: view, Status: statusCode, Message: message})
	chrome := pagerender.Chrome(w, r, deps, message)
	ctx := templ.WithChildren(httpx.RequestContext(r), fragment)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	var err error
	if httpx.IsHTMXRequest(r) {
		err = templates.Fragment(chrome).Render(ctx, w)
	} else {
		err = templates.Layout(chrome).Render(ctx, w)
	}
	if err != nil {
		_, _ = w.Write([]byte(message))
	}
}

// WriteModuleError writes a module-safe localized error response. Upstream
// 401s end the session and send the browser to the login page.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, deps Dependencies) {
	if w == nil {
		return
	}
	if apperrors.IsUnauthorized(err) {
		RedirectToLogin(w, r, deps)
		return
	}
	view := pagerender.View(r, deps)
	message := PublicMessage(view.Locale.Printer(), err)
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		writeAppError(w, r, statusCode, message, deps)
		return
	}
	http.Error(w, message, statusCode)
}

// RedirectToLogin tears down the local session, flashes the expiry notice,
// and redirects to login. GET requests come back to where they started.
func RedirectToLogin(w http.ResponseWriter, r *http.Request, deps Dependencies) {
	if w == nil {
		return
	}
	policy := sessioncookie.Policy{}
	if deps != nil {
		deps.EndRequestSession(w, r)
		policy = deps.RequestCookiePolicy()
	}
	flash.Write(w, r, flash.Error(SessionExpiredKey), policy)
	next := ""
	if r != nil && r.URL != nil && r.Method == http.MethodGet {
		next = r.URL.RequestURI()
	}
	httpx.WriteRedirect(w, r, routepath.LoginWithNext(next))
}
