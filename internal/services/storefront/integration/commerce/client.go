// Package commerce is the HTTP client for the remote commerce API.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/louisbranch/storefront/internal/platform/otel"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
)

const maxErrorBody = 64 << 10

// API is the commerce capability consumed by storefront modules.
type API interface {
	Login(ctx context.Context, email, password string) (Auth, error)
	Register(ctx context.Context, in RegisterInput) (User, error)
	ListProducts(ctx context.Context, skip, limit int) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, error)
	GetCart(ctx context.Context) ([]CartItem, error)
	AddToCart(ctx context.Context, productID, quantity int) (CartItem, error)
	RemoveFromCart(ctx context.Context, itemID int) error
	CreateOrder(ctx context.Context, in OrderInput) (Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id int) (Order, error)
	CreatePaymentIntent(ctx context.Context, orderID int) (PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) (PaymentConfirmation, error)
	MockPayment(ctx context.Context, orderID int, cardNumber string) (MockPaymentResult, error)
}

// Config configures Client.
type Config struct {
	BaseURL string
	// HTTPClient overrides the default traced client.
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	// FailureThreshold is the consecutive transient failures that open the
	// breaker. Defaults to 5.
	FailureThreshold uint32
}

// Client calls the commerce API. Every call goes through one circuit
// breaker; only transport errors and 5xx responses count as failures.
type Client struct {
	base    *url.URL
	http    *http.Client
	logger  logrus.FieldLogger
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

var _ API = (*Client)(nil)

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("commerce: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("commerce: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("commerce: base url %q must be http or https", raw)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeouts.UpstreamRequest,
			Transport: otel.Transport(http.DefaultTransport),
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "commerce-api",
		MaxRequests: 1,
		Timeout:     timeouts.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !isTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
	return &Client{base: base, http: httpClient, logger: logger, breaker: breaker}, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (Auth, error) {
	var out Auth
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in RegisterInput) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &out)
	return out, err
}

// ListProducts returns one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, skip, limit int) ([]Product, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(max(skip, 0)))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []Product
	err := c.do(ctx, http.MethodGet, "/api/products?"+query.Encode(), nil, &out)
	return out, err
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.Itoa(id), nil, &out)
	return out, err
}

// GetCart returns the caller's cart lines.
func (c *Client) GetCart(ctx context.Context) ([]CartItem, error) {
	var out []CartItem
	err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out)
	return out, err
}

// AddToCart adds quantity units of a product.
func (c *Client) AddToCart(ctx context.Context, productID, quantity int) (CartItem, error) {
	var out CartItem
	err := c.do(ctx, http.MethodPost, "/api/cart", map[string]int{
		"product_id": productID,
		"quantity":   quantity,
	}, &out)
	return out, err
}

// RemoveFromCart deletes one cart line.
func (c *Client) RemoveFromCart(ctx context.Context, itemID int) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+strconv.Itoa(itemID), nil, nil)
}

// CreateOrder places an order with the given total.
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodPost, "/api/orders", in.body(), &out)
	return out, err
}

// ListOrders returns the caller's orders.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, "/api/orders", nil, &out)
	return out, err
}

// GetOrder returns one order.
func (c *Client) GetOrder(ctx context.Context, id int) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.Itoa(id), nil, &out)
	return out, err
}

// CreatePaymentIntent asks the gateway for an intent bound to orderID.
func (c *Client) CreatePaymentIntent(ctx context.Context, orderID int) (PaymentIntent, error) {
	var out PaymentIntent
	err := c.do(ctx, http.MethodPost, "/api/create-payment-intent", map[string]int{"order_id": orderID}, &out)
	return out, err
}

// ConfirmPayment reconciles a gateway payment with the order record.
func (c *Client) ConfirmPayment(ctx context.Context, paymentIntentID string) (PaymentConfirmation, error) {
	var out PaymentConfirmation
	err := c.do(ctx, http.MethodPost, "/api/confirm-payment", map[string]string{"payment_intent_id": paymentIntentID}, &out)
	return out, err
}

// MockPayment records a mock card payment for orderID.
func (c *Client) MockPayment(ctx context.Context, orderID int, cardNumber string) (MockPaymentResult, error) {
	var out MockPaymentResult
	err := c.do(ctx, http.MethodPost, "/api/mock-payment", map[string]any{
		"order_id":    orderID,
		"card_number": cardNumber,
	}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("commerce: encode %s %s: %w", method, path, err)
		}
		payload = encoded
	}

	caller := CallerFromContext(ctx)
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Language", caller.Locale.String())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if caller.Token != "" {
			req.Header.Set("Authorization", "Bearer "+caller.Token)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			defer resp.Body.Close()
			return nil, decodeAPIError(resp)
		}
		return resp, nil
	})
	if err != nil {
		return c.classify(method, path, err)
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("commerce: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) classify(method, path string, err error) error {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return unavailableError{err: err}
	default:
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Warn("commerce request failed")
		return unavailableError{err: err}
	}
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil {
			apiErr.Detail = text
		} else {
			apiErr.Detail = string(envelope.Detail)
		}
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(data))
	return apiErr
}
