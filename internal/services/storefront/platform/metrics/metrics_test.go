package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentUsesMuxPattern(t *testing.T) {
	t.Parallel()

	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{productID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := m.Instrument(mux)
	for _, id := range []string{"1", "2", "3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/products/{productID}", "200")); got != 3 {
		t.Fatalf("requests = %v, want 3", got)
	}
}

func TestDomainCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.CheckoutTransition("shipping", "payment", true)
	m.CheckoutTransition("shipping", "payment", false)
	m.PaymentOutcome("mock", "failed")
	m.CacheLookup("cart", true)

	if got := testutil.ToFloat64(m.checkout.WithLabelValues("shipping", "payment", "failed")); got != 1 {
		t.Fatalf("failed transitions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.payments.WithLabelValues("mock", "failed")); got != 1 {
		t.Fatalf("payment outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("cart", "hit")); got != 1 {
		t.Fatalf("cache hits = %v, want 1", got)
	}
}

func TestHandlerExposesStorefrontNamespace(t *testing.T) {
	t.Parallel()

	m := New()
	m.PaymentOutcome("gateway", "succeeded")
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "storefront_payment_outcomes_total") {
		t.Fatalf("metrics body missing payment counter")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.CheckoutTransition("shipping", "payment", true)
	m.PaymentOutcome("mock", "succeeded")
	m.CacheLookup("orders", false)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rr := httptest.NewRecorder()
	m.Instrument(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rr.Code)
	}
}
