package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/shared/i18nhttp"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/cache"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/metrics"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
)

const staleToken = "stale-token"

// fakeAPI answers the commerce calls the page flows below make. Anything
// else panics through the nil embedded interface.
type fakeAPI struct {
	commerce.API

	mu       sync.Mutex
	products []commerce.Product
	carts    map[string][]commerce.CartItem
	orders   []commerce.Order
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		products: []commerce.Product{
			{ID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("199.99"), StockQuantity: 5, IsActive: true},
		},
		carts: map[string][]commerce.CartItem{},
	}
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (commerce.Auth, error) {
	if password != "secret1" {
		return commerce.Auth{}, &commerce.APIError{Status: http.StatusUnauthorized, Detail: "Incorrect email or password"}
	}
	return commerce.Auth{AccessToken: "token-" + email, User: commerce.User{ID: 7, Email: email, Name: "Ada"}}, nil
}

func (f *fakeAPI) ListProducts(context.Context, int, int) ([]commerce.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]commerce.Product(nil), f.products...), nil
}

func (f *fakeAPI) GetProduct(_ context.Context, id int) (commerce.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return commerce.Product{}, &commerce.APIError{Status: http.StatusNotFound, Detail: "Product not found"}
}

func (f *fakeAPI) GetCart(ctx context.Context) ([]commerce.CartItem, error) {
	caller := commerce.CallerFromContext(ctx)
	if caller.Token == "" || caller.Token == staleToken {
		return nil, &commerce.APIError{Status: http.StatusUnauthorized, Detail: "Could not validate credentials"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]commerce.CartItem(nil), f.carts[caller.Token]...), nil
}

func (f *fakeAPI) setCart(token string, items ...commerce.CartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[token] = items
}

func (f *fakeAPI) CreateOrder(_ context.Context, in commerce.OrderInput) (commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order := commerce.Order{ID: len(f.orders) + 1, TotalAmount: in.Total, Status: commerce.OrderPending, ShippingAddress: in.ShippingAddress}
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeAPI) ListOrders(context.Context) ([]commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]commerce.Order(nil), f.orders...), nil
}

type memStore struct {
	mu      sync.Mutex
	records map[string]session.Record
}

func newMemStore() *memStore {
	return &memStore{records: map[string]session.Record{}}
}

func (s *memStore) PutSession(_ context.Context, record session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *memStore) GetSession(_ context.Context, id string) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return session.Record{}, session.ErrNotFound
	}
	return record, nil
}

func (s *memStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *memStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, record := range s.records {
		if record.Expired(now) {
			delete(s.records, id)
			removed++
		}
	}
	return removed, nil
}

func (s *memStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	return ok
}

type recordingInvalidator struct {
	mu    sync.Mutex
	users []string
}

func (r *recordingInvalidator) InvalidateUser(_ context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
}

type harness struct {
	handler     http.Handler
	api         *fakeAPI
	store       *memStore
	invalidator *recordingInvalidator
}

func newHarness(t *testing.T) harness {
	t.Helper()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	api := newFakeAPI()
	store := newMemStore()
	invalidator := &recordingInvalidator{}
	handler, err := NewHandler(HandlerDeps{
		API:         api,
		Sessions:    session.NewManager(store, api, session.Options{Logger: logger}),
		Invalidator: invalidator,
		Metrics:     metrics.New(),
		Logger:      logger,
	})
	require.NoError(t, err)
	return harness{handler: handler, api: api, store: store, invalidator: invalidator}
}

func (h harness) seedSession(t *testing.T, token string) session.Record {
	t.Helper()
	record := session.Record{
		ID:        gofakeit.UUID(),
		Token:     token,
		UserID:    "7",
		Email:     gofakeit.Email(),
		Name:      gofakeit.FirstName(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, h.store.PutSession(context.Background(), record))
	return record
}

func (h harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func responseCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewHandlerRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := NewHandler(HandlerDeps{})
	assert.Error(t, err)

	_, err = NewHandler(HandlerDeps{API: newFakeAPI()})
	assert.Error(t, err)
}

func TestNewServerRequiresHTTPAddr(t *testing.T) {
	t.Parallel()

	_, err := NewServer(context.Background(), Config{})
	assert.Error(t, err)
}

func TestHealthReportsDegradedCheckout(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rr := h.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "checkout")
}

func TestStaticAssetsAreServed(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rr := h.serve(httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsEndpointExposesRequests(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.serve(httptest.NewRequest(http.MethodGet, "/products", nil))
	rr := h.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "storefront_")
}

func TestLocalePrefixRedirectsAndPersistsCookie(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rr := h.serve(httptest.NewRequest(http.MethodGet, "/ja/products?skip=12", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/products?skip=12", rr.Header().Get("Location"))
	assert.Equal(t, "ja", rr.Header().Get(i18nhttp.ResolutionHeader))
	cookie := responseCookie(rr, i18nhttp.CookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "ja", cookie.Value)
}

func TestAnonymousCartRedirectsToLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rr := h.serve(httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?next=%2Fcart", rr.Header().Get("Location"))
}

func TestLoginSetsSessionCookieAndUnlocksCart(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	form := url.Values{"email": {"ada@example.com"}, "password": {"secret1"}, "next": {"/cart"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := h.serve(req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/cart", rr.Header().Get("Location"))
	cookie := responseCookie(rr, sessioncookie.Name)
	require.NotNil(t, cookie)
	assert.True(t, h.store.has(cookie.Value))

	cartReq := httptest.NewRequest(http.MethodGet, "/cart", nil)
	cartReq.AddCookie(cookie)
	cartRR := h.serve(cartReq)
	assert.Equal(t, http.StatusOK, cartRR.Code)
}

func TestUnauthorizedUpstreamEndsSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	record := h.seedSession(t, staleToken)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: record.ID})
	rr := h.serve(req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?next=%2Fcart", rr.Header().Get("Location"))
	cleared := responseCookie(rr, sessioncookie.Name)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
	assert.False(t, h.store.has(record.ID))
	assert.Equal(t, []string{"7"}, h.invalidator.users)
}

func TestUnknownSessionCookieIsCleared(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "missing"})
	rr := h.serve(req)

	assert.Equal(t, http.StatusOK, rr.Code)
	cleared := responseCookie(rr, sessioncookie.Name)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestCrossOriginMutationWithSessionIsForbidden(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	record := h.seedSession(t, "token-ada")

	req := httptest.NewRequest(http.MethodPost, "http://shop.test/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: record.ID})
	req.Header.Set("Origin", "https://evil.test")
	rr := h.serve(req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.True(t, h.store.has(record.ID))
}

func TestLogoutRemovesSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	record := h.seedSession(t, "token-ada")

	req := httptest.NewRequest(http.MethodPost, "http://shop.test/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: record.ID})
	req.Header.Set("Origin", "http://shop.test")
	rr := h.serve(req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, h.store.has(record.ID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rr := h.serve(httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCheckoutOrdersFromLiveCartAndDropsCachedOrders(t *testing.T) {
	logger, _ := test.NewNullLogger()
	upstream := newFakeAPI()
	headphones := upstream.products[0]
	upstream.setCart("tok", commerce.CartItem{ID: 1, ProductID: headphones.ID, Quantity: 1, Product: headphones})

	cached := cache.NewClient(upstream, cache.NewMemoryStore(16, time.Hour), cache.Options{TTL: time.Minute, Logger: logger})
	ctx := commerce.WithCaller(context.Background(), commerce.Caller{Token: "tok", Locale: i18n.English, UserID: "7"})
	_, err := cached.GetCart(ctx)
	require.NoError(t, err)
	orders, err := cached.ListOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)

	// The cached cart now lags the upstream one.
	upstream.setCart("tok", commerce.CartItem{ID: 1, ProductID: headphones.ID, Quantity: 3, Product: headphones})

	strategy, err := payment.New(payment.ModeMock, cached)
	require.NoError(t, err)
	machine, err := newCheckoutMachine(upstream, cached, strategy, metrics.New(), logger)
	require.NoError(t, err)
	flow, err := machine.Start("sess-1")
	require.NoError(t, err)
	flow, err = machine.SubmitShipping(ctx, "sess-1", flow.ID, "1 Main Street")
	require.NoError(t, err)

	require.NotNil(t, flow.Snapshot)
	assert.Equal(t, "599.97", flow.Snapshot.Total.StringFixed(2))
	require.Len(t, upstream.orders, 1)
	assert.Equal(t, "599.97", upstream.orders[0].TotalAmount.StringFixed(2))

	orders, err = cached.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1, "order history must not be served from the pre-checkout cache")
}
