package checkout

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
)

var errBoom = errors.New("boom")

func TestModuleIDAndMount(t *testing.T) {
	t.Parallel()

	api := newFakeCommerce()
	m := NewWithConfig(Config{Flows: newMachine(t, api, payment.ModeMock), Orders: api})
	assert.Equal(t, "checkout", m.ID())
	assert.True(t, m.Healthy())

	mount, err := m.Mount()
	require.NoError(t, err)
	assert.Equal(t, "/checkout/", mount.Prefix)
}

func TestDegradedModuleIsUnavailable(t *testing.T) {
	t.Parallel()

	m := New()
	assert.False(t, m.Healthy())

	mount, err := m.Mount()
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req = req.WithContext(session.WithRecord(req.Context(), session.Record{ID: "sess-1"}))
	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
