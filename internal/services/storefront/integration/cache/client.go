package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
)

// Recorder observes cache hits and misses.
type Recorder interface {
	CacheLookup(resource string, hit bool)
}

// Options tune Client.
type Options struct {
	TTL      time.Duration
	Logger   logrus.FieldLogger
	Recorder Recorder
}

const (
	generationKeys   = 65536
	generationMinTTL = 10 * time.Minute
)

// Client decorates a commerce.API with read-through caching of products,
// carts, and order lists. Cart and order entries are scoped to the caller's
// user id; anonymous callers bypass those entries. Concurrent misses for one
// key share a single upstream fill.
//
// Every invalidation bumps the key's generation. A fill only writes its
// result while the generation it started under is still current, so a read
// that raced a mutation never puts the pre-mutation value back.
type Client struct {
	commerce.API

	store    Store
	ttl      time.Duration
	logger   logrus.FieldLogger
	recorder Recorder
	fills    singleflight.Group

	genMu       sync.Mutex
	generations *expirable.LRU[string, uint64]
	epoch       uint64
}

// NewClient wraps api with store.
func NewClient(api commerce.API, store Store, opts Options) *Client {
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	// Generations outlive any in-flight fill by a wide margin.
	genTTL := 5 * opts.TTL
	if genTTL < generationMinTTL {
		genTTL = generationMinTTL
	}
	return &Client{
		API:         api,
		store:       store,
		ttl:         opts.TTL,
		logger:      opts.Logger,
		recorder:    opts.Recorder,
		generations: expirable.NewLRU[string, uint64](generationKeys, nil, genTTL),
	}
}

// CartKey is the cache key of a user's cart.
func CartKey(userID string) string { return "cart:" + userID }

// OrdersKey is the cache key of a user's order list.
func OrdersKey(userID string) string { return "orders:" + userID }

func productsKey(caller commerce.Caller, skip, limit int) string {
	return fmt.Sprintf("products:%s:%d:%d", caller.Locale, skip, limit)
}

func productKey(caller commerce.Caller, id int) string {
	return "product:" + caller.Locale.String() + ":" + strconv.Itoa(id)
}

// ListProducts reads through the per-locale page cache.
func (c *Client) ListProducts(ctx context.Context, skip, limit int) ([]commerce.Product, error) {
	caller := commerce.CallerFromContext(ctx)
	return readThrough(c, ctx, "products", productsKey(caller, skip, limit), func(ctx context.Context) ([]commerce.Product, error) {
		return c.API.ListProducts(ctx, skip, limit)
	})
}

// GetProduct reads through the per-locale product cache.
func (c *Client) GetProduct(ctx context.Context, id int) (commerce.Product, error) {
	caller := commerce.CallerFromContext(ctx)
	return readThrough(c, ctx, "product", productKey(caller, id), func(ctx context.Context) (commerce.Product, error) {
		return c.API.GetProduct(ctx, id)
	})
}

// GetCart reads through the caller's cart entry.
func (c *Client) GetCart(ctx context.Context) ([]commerce.CartItem, error) {
	caller := commerce.CallerFromContext(ctx)
	if caller.UserID == "" {
		return c.API.GetCart(ctx)
	}
	return readThrough(c, ctx, "cart", CartKey(caller.UserID), c.API.GetCart)
}

// ListOrders reads through the caller's order list entry.
func (c *Client) ListOrders(ctx context.Context) ([]commerce.Order, error) {
	caller := commerce.CallerFromContext(ctx)
	if caller.UserID == "" {
		return c.API.ListOrders(ctx)
	}
	return readThrough(c, ctx, "orders", OrdersKey(caller.UserID), c.API.ListOrders)
}

// AddToCart mutates upstream then drops the cached cart.
func (c *Client) AddToCart(ctx context.Context, productID, quantity int) (commerce.CartItem, error) {
	item, err := c.API.AddToCart(ctx, productID, quantity)
	if err != nil {
		return item, err
	}
	c.invalidate(ctx, CartKey(commerce.CallerFromContext(ctx).UserID))
	return item, nil
}

// RemoveFromCart mutates upstream then drops the cached cart.
func (c *Client) RemoveFromCart(ctx context.Context, itemID int) error {
	if err := c.API.RemoveFromCart(ctx, itemID); err != nil {
		return err
	}
	c.invalidate(ctx, CartKey(commerce.CallerFromContext(ctx).UserID))
	return nil
}

// CreateOrder mutates upstream then drops the cached order list.
func (c *Client) CreateOrder(ctx context.Context, in commerce.OrderInput) (commerce.Order, error) {
	order, err := c.API.CreateOrder(ctx, in)
	if err != nil {
		return order, err
	}
	c.invalidate(ctx, OrdersKey(commerce.CallerFromContext(ctx).UserID))
	return order, nil
}

// ConfirmPayment drops cart and orders since a confirmed payment clears
// the cart upstream and changes order status.
func (c *Client) ConfirmPayment(ctx context.Context, paymentIntentID string) (commerce.PaymentConfirmation, error) {
	out, err := c.API.ConfirmPayment(ctx, paymentIntentID)
	if err != nil {
		return out, err
	}
	c.InvalidateUser(ctx, commerce.CallerFromContext(ctx).UserID)
	return out, nil
}

// MockPayment drops cart and orders after any recorded attempt, since the
// order's payment status changes either way.
func (c *Client) MockPayment(ctx context.Context, orderID int, cardNumber string) (commerce.MockPaymentResult, error) {
	out, err := c.API.MockPayment(ctx, orderID, cardNumber)
	if err != nil {
		return out, err
	}
	c.InvalidateUser(ctx, commerce.CallerFromContext(ctx).UserID)
	return out, nil
}

// InvalidateUser drops the cart and order list entries of userID.
func (c *Client) InvalidateUser(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	c.invalidate(ctx, CartKey(userID), OrdersKey(userID))
}

func (c *Client) invalidate(ctx context.Context, keys ...string) {
	var live []string
	for _, key := range keys {
		if key != CartKey("") && key != OrdersKey("") {
			live = append(live, key)
		}
	}
	if len(live) == 0 {
		return
	}
	c.bump(live...)
	if err := c.store.Delete(context.WithoutCancel(ctx), live...); err != nil {
		c.logger.WithField("keys", live).WithError(err).Warn("cache invalidation failed")
	}
}

func readThrough[T any](c *Client, ctx context.Context, resource, key string, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	err := c.store.Get(ctx, key, &cached)
	if err == nil {
		c.record(resource, true)
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.WithField("key", key).WithError(err).Warn("cache read failed")
	}
	c.record(resource, false)

	gen := c.generation(key)
	value, err, _ := c.fills.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)
		fresh, err := fetch(fillCtx)
		if err != nil {
			return fresh, err
		}
		c.storeFill(fillCtx, key, gen, fresh)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

// storeFill writes a fill started under gen. A write that lands after a
// concurrent invalidation is deleted again.
func (c *Client) storeFill(ctx context.Context, key string, gen uint64, value any) {
	if c.generation(key) != gen {
		return
	}
	if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.WithField("key", key).WithError(err).Warn("cache write failed")
		return
	}
	if c.generation(key) == gen {
		return
	}
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.WithField("key", key).WithError(err).Warn("cache invalidation failed")
	}
}

func (c *Client) generation(key string) uint64 {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	gen, _ := c.generations.Get(key)
	return gen
}

func (c *Client) bump(keys ...string) {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	for _, key := range keys {
		c.epoch++
		c.generations.Add(key, c.epoch)
	}
}

func (c *Client) record(resource string, hit bool) {
	if c.recorder != nil {
		c.recorder.CacheLookup(resource, hit)
	}
}
