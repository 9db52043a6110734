package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
)

func mount(t *testing.T, gateway CatalogGateway, base modulehandler.Base) http.Handler {
	t.Helper()
	mounted, err := NewWithGateway(gateway, nil, base).Mount()
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return mounted.Handler
}

func localeBase(loc i18n.Locale) modulehandler.Base {
	return modulehandler.NewBase(module.Runtime{
		ResolveLocale: func(*http.Request) i18n.Locale { return loc },
		ResolveViewer: func(r *http.Request) module.Viewer {
			if record, ok := session.FromContext(r.Context()); ok {
				return module.Viewer{Authenticated: true, UserID: record.UserID}
			}
			return module.Viewer{}
		},
	})
}

func TestHomeRendersFeaturedProducts(t *testing.T) {
	t.Parallel()

	gateway := fakeGateway{products: []commerce.Product{product(1, "Wireless Headphones", "199.99", 5)}}
	rr := httptest.NewRecorder()
	mount(t, gateway, localeBase(i18n.English)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Wireless Headphones") || !strings.Contains(body, "199.99") {
		t.Fatalf("body = %s", body)
	}
}

func TestHomeLocalizesSeededProductNames(t *testing.T) {
	t.Parallel()

	gateway := fakeGateway{products: []commerce.Product{product(1, "Wireless Headphones", "199.99", 5)}}
	rr := httptest.NewRecorder()
	mount(t, gateway, localeBase(i18n.Japanese)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rr.Body.String()
	if strings.Contains(body, ">Wireless Headphones<") {
		t.Fatalf("seeded product name not localized: %s", body)
	}
	if !strings.Contains(body, "200") || strings.Contains(body, "199.99") {
		t.Fatalf("expected yen price in body: %s", body)
	}
}

func TestProductsPagination(t *testing.T) {
	t.Parallel()

	var skip, limit int
	gateway := fakeGateway{products: manyProducts(30), lastSkip: &skip, lastLimit: &limit}
	h := mount(t, gateway, localeBase(i18n.English))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	if skip != 0 || limit != DefaultPageSize+1 {
		t.Fatalf("window = (%d, %d)", skip, limit)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `href="/products?skip=12"`) {
		t.Fatalf("missing next link: %s", body)
	}
	if strings.Contains(body, `rel="prev"`) {
		t.Fatalf("first page has a previous link")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products?skip=24", nil))
	body = rr.Body.String()
	if strings.Contains(body, `rel="next"`) {
		t.Fatalf("last page has a next link")
	}
	if !strings.Contains(body, `href="/products?skip=12"`) {
		t.Fatalf("missing previous link: %s", body)
	}
}

func TestProductsClampsWindow(t *testing.T) {
	t.Parallel()

	var skip, limit int
	gateway := fakeGateway{lastSkip: &skip, lastLimit: &limit}
	rr := httptest.NewRecorder()
	mount(t, gateway, localeBase(i18n.English)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products?skip=-3&limit=500", nil))
	if skip != 0 || limit != MaxPageSize+1 {
		t.Fatalf("window = (%d, %d)", skip, limit)
	}
}

func TestProductDetail(t *testing.T) {
	t.Parallel()

	gateway := fakeGateway{products: []commerce.Product{product(7, "Lamp", "24.50", 0)}}
	h := mount(t, gateway, localeBase(i18n.English))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/7", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Lamp") || !strings.Contains(body, "Out of Stock") {
		t.Fatalf("body = %s", body)
	}
	if !strings.Contains(body, "Buy Lamp at the best price.") {
		t.Fatalf("missing fallback description: %s", body)
	}
}

func TestProductDetailAddToCartForSignedInViewer(t *testing.T) {
	t.Parallel()

	gateway := fakeGateway{products: []commerce.Product{product(8, "Kettle", "30.00", 4)}}
	req := httptest.NewRequest(http.MethodGet, "/products/8", nil)
	req = req.WithContext(session.WithRecord(req.Context(), session.Record{ID: "s", UserID: "1"}))
	rr := httptest.NewRecorder()
	mount(t, gateway, localeBase(i18n.English)).ServeHTTP(rr, req)

	if !strings.Contains(rr.Body.String(), `action="/cart/items"`) {
		t.Fatalf("missing add-to-cart form: %s", rr.Body.String())
	}
}

func TestProductDetailNotFound(t *testing.T) {
	t.Parallel()

	h := mount(t, fakeGateway{}, localeBase(i18n.English))
	for _, path := range []string{"/products/99", "/products/abc", "/products/-1"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Product not found") {
			t.Fatalf("%s body = %s", path, rr.Body.String())
		}
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mount(t, fakeGateway{}, localeBase(i18n.English)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope/deeper", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestUpstreamFailureRendersUnavailable(t *testing.T) {
	t.Parallel()

	gateway := fakeGateway{listErr: errors.Join(commerce.ErrUnavailable, &commerce.APIError{Status: http.StatusBadGateway})}
	rr := httptest.NewRecorder()
	mount(t, gateway, localeBase(i18n.English)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}
