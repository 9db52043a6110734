package pagerender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
)

type stubDeps struct {
	viewer module.Viewer
	locale i18n.Locale
}

func (d stubDeps) ResolveRequestViewer(*http.Request) module.Viewer { return d.viewer }
func (d stubDeps) ResolveRequestLocale(*http.Request) i18n.Locale   { return d.locale }

func textComponent(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

func TestWriteModulePageFullDocument(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	err := WriteModulePage(rr, req, stubDeps{locale: i18n.Spanish}, ModulePage{Title: "Productos", Fragment: textComponent("<p>grid</p>")})
	if err != nil {
		t.Fatalf("WriteModulePage: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `<html lang="es-ES">`) || !strings.Contains(body, "<p>grid</p>") {
		t.Fatalf("body = %s", body)
	}
	if !strings.Contains(body, `href="/zh/products"`) {
		t.Fatalf("language switcher does not target the current route: %s", body)
	}
}

func TestWriteModulePageHTMXFragment(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	if err := WriteModulePage(rr, req, stubDeps{locale: i18n.English}, ModulePage{StatusCode: http.StatusCreated, Fragment: textComponent("only-this")}); err != nil {
		t.Fatalf("WriteModulePage: %v", err)
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<html") || !strings.Contains(body, "only-this") {
		t.Fatalf("body = %s", body)
	}
}

func TestWriteModulePageConsumesFlash(t *testing.T) {
	t.Parallel()

	seed := httptest.NewRecorder()
	flash.Write(seed, httptest.NewRequest(http.MethodPost, "/logout", nil), flash.Info("auth.flash.logged_out"), sessioncookie.Policy{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range seed.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	if err := WriteModulePage(rr, req, stubDeps{locale: i18n.English}, ModulePage{}); err != nil {
		t.Fatalf("WriteModulePage: %v", err)
	}
	if !strings.Contains(rr.Body.String(), "You have been signed out") {
		t.Fatalf("flash not rendered: %s", rr.Body.String())
	}
	cleared := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flash.CookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("flash cookie was not cleared")
	}
}

func TestViewWithoutDependencies(t *testing.T) {
	t.Parallel()

	view := View(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if view.Locale != i18n.Default || view.Viewer.Authenticated {
		t.Fatalf("view = %+v", view)
	}
}
