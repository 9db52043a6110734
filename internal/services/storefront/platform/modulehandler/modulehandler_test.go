package modulehandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

func TestRequestContextCarriesCaller(t *testing.T) {
	t.Parallel()

	base := NewBase(module.Runtime{
		ResolveLocale: func(*http.Request) i18n.Locale { return i18n.Japanese },
	})
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req = req.WithContext(session.WithRecord(req.Context(), session.Record{ID: "s1", Token: "tok", UserID: "42"}))

	ctx, userID := base.RequestContextAndUserID(req)
	if userID != "42" {
		t.Fatalf("user id = %q", userID)
	}
	caller := commerce.CallerFromContext(ctx)
	if caller.Token != "tok" || caller.UserID != "42" || caller.Locale != i18n.Japanese {
		t.Fatalf("caller = %+v", caller)
	}
	if got := base.RequestSessionID(req); got != "s1" {
		t.Fatalf("session id = %q", got)
	}
}

func TestRequestContextAnonymous(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	caller := commerce.CallerFromContext(base.RequestContext(req))
	if caller.Token != "" || caller.UserID != "" || caller.Locale != i18n.Default {
		t.Fatalf("caller = %+v", caller)
	}
	if base.RequestUserID(nil) != "" || base.RequestSessionID(nil) != "" {
		t.Fatalf("nil request should resolve no identity")
	}
}

func TestWritePageUsesRuntime(t *testing.T) {
	t.Parallel()

	base := NewBase(module.Runtime{
		ResolveViewer: func(*http.Request) module.Viewer { return module.Viewer{Authenticated: true, Name: "Grace"} },
		ResolveLocale: func(*http.Request) i18n.Locale { return i18n.English },
	})
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()
	view := base.View(req)
	base.WritePage(rr, req, "Orders", http.StatusOK, templates.OrdersPage(templates.OrdersView{View: view}))

	body := rr.Body.String()
	if !strings.Contains(body, "Grace") || !strings.Contains(body, "No orders yet") {
		t.Fatalf("body = %s", body)
	}
}

func TestWriteErrorEndsSessionOnUnauthorized(t *testing.T) {
	t.Parallel()

	ended := 0
	base := NewBase(module.Runtime{
		EndSession: func(http.ResponseWriter, *http.Request) { ended++ },
	})
	rr := httptest.NewRecorder()
	base.WriteError(rr, httptest.NewRequest(http.MethodGet, "/orders", nil), &commerce.APIError{Status: http.StatusUnauthorized})
	if ended != 1 {
		t.Fatalf("EndSession calls = %d", ended)
	}
	if got := rr.Header().Get("Location"); got != "/login?next=%2Forders" {
		t.Fatalf("Location = %q", got)
	}
}

func TestWriteNotFound(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	rr := httptest.NewRecorder()
	base.WriteNotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Page not found") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestFlashAndRedirect(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	rr := httptest.NewRecorder()
	base.FlashAndRedirect(rr, httptest.NewRequest(http.MethodPost, "/cart/items", nil), flash.Success("catalog.added_to_cart"), "/cart")
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/cart" {
		t.Fatalf("redirect = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	found := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flash.CookieName {
			found = true
		}
	}
	if !found {
		t.Fatalf("flash cookie missing")
	}
}

func TestTTranslatesInRequestLocale(t *testing.T) {
	t.Parallel()

	base := NewBase(module.Runtime{ResolveLocale: func(*http.Request) i18n.Locale { return i18n.English }})
	if got := base.T(httptest.NewRequest(http.MethodGet, "/", nil), "core.nav.cart"); got != "Cart" {
		t.Fatalf("T = %q", got)
	}
}

func TestWriteFormPageStatus(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rr := httptest.NewRecorder()
	base.WriteFormPage(rr, req, "Login", templates.LoginPage(templates.LoginView{View: base.View(req)}))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rr.Code)
	}

	req.Header.Set("HX-Request", "true")
	rr = httptest.NewRecorder()
	base.WriteFormPage(rr, req, "Login", templates.LoginPage(templates.LoginView{View: base.View(req)}))
	if rr.Code != http.StatusOK {
		t.Fatalf("htmx status = %d", rr.Code)
	}
}
