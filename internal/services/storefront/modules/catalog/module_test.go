package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
)

func TestModuleIDAndMount(t *testing.T) {
	t.Parallel()

	m := NewWithGateway(fakeGateway{}, nil, modulehandler.NewTestBase())
	if m.ID() != "catalog" {
		t.Fatalf("ID = %q", m.ID())
	}
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if mount.Prefix != "/" || len(mount.Paths) != 1 || mount.Paths[0] != "/products" {
		t.Fatalf("mount = %+v", mount)
	}
	if !m.Healthy() {
		t.Fatalf("expected healthy module")
	}
}

func TestDegradedModuleIsUnhealthyAndUnavailable(t *testing.T) {
	t.Parallel()

	m := New()
	if m.Healthy() {
		t.Fatalf("zero module should be unhealthy")
	}
	if NewWithGateway(unavailableGateway{}, nil, modulehandler.NewTestBase()).Healthy() {
		t.Fatalf("unavailable gateway should be unhealthy")
	}
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestPostToCatalogRouteIsNotAllowed(t *testing.T) {
	t.Parallel()

	mount, _ := NewWithGateway(fakeGateway{}, nil, modulehandler.NewTestBase()).Mount()
	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/products", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rr.Code)
	}
}
