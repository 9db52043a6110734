// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// Dependencies resolves the request state the page shell needs.
type Dependencies interface {
	ResolveRequestViewer(*http.Request) module.Viewer
	ResolveRequestLocale(*http.Request) i18n.Locale
}

// ModulePage describes a module page response for both full-page and HTMX flows.
type ModulePage struct {
	// Title is already localized.
	Title      string
	StatusCode int
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WriteModulePage writes a module page. HTMX requests receive the fragment
// and an out-of-band flash region; everything else gets the full layout.
// Any pending flash notice is consumed.
func WriteModulePage(w http.ResponseWriter, r *http.Request, deps Dependencies, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	chrome := Chrome(w, r, deps, page.Title)
	ctx := templ.WithChildren(httpx.RequestContext(r), fragment)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", "HX-Request")
	w.WriteHeader(statusCode)
	if httpx.IsHTMXRequest(r) {
		return templates.Fragment(chrome).Render(ctx, w)
	}
	return templates.Layout(chrome).Render(ctx, w)
}

// View builds the template view for a request.
func View(r *http.Request, deps Dependencies) templates.View {
	if deps == nil {
		return templates.NewView(i18n.Default, module.Viewer{})
	}
	return templates.NewView(deps.ResolveRequestLocale(r), deps.ResolveRequestViewer(r))
}

// Chrome builds layout data for a request, consuming any flash notice.
func Chrome(w http.ResponseWriter, r *http.Request, deps Dependencies, title string) templates.Chrome {
	var notice *flash.Notice
	if pending, ok := flash.ReadAndClear(w, r); ok {
		notice = &pending
	}
	routePath, rawQuery := "/", ""
	if r != nil && r.URL != nil {
		routePath, rawQuery = r.URL.Path, r.URL.RawQuery
	}
	return templates.NewChrome(View(r, deps), title, notice, routePath, rawQuery)
}
