package checkout

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	checkoutflow "github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
)

// fakeCommerce backs both the flow machine and the payment variants.
type fakeCommerce struct {
	mu        sync.Mutex
	cart      []commerce.CartItem
	orders    map[int]commerce.Order
	created   int
	createErr error
	mockCalls int
}

func newFakeCommerce(items ...commerce.CartItem) *fakeCommerce {
	return &fakeCommerce{cart: items, orders: map[int]commerce.Order{}}
}

func (f *fakeCommerce) GetCart(context.Context) ([]commerce.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]commerce.CartItem(nil), f.cart...), nil
}

func (f *fakeCommerce) clearCart() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart = nil
}

func (f *fakeCommerce) CreateOrder(_ context.Context, in commerce.OrderInput) (commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return commerce.Order{}, f.createErr
	}
	f.created++
	order := commerce.Order{
		ID:              500 + f.created,
		TotalAmount:     in.Total,
		Status:          commerce.OrderPending,
		PaymentStatus:   commerce.PaymentPending,
		ShippingAddress: in.ShippingAddress,
	}
	for _, line := range in.Lines {
		order.Items = append(order.Items, commerce.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity, Price: line.Price})
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeCommerce) GetOrder(_ context.Context, id int) (commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return commerce.Order{}, &commerce.APIError{Status: 404, Detail: "Order not found"}
	}
	return order, nil
}

func (f *fakeCommerce) CreatePaymentIntent(_ context.Context, orderID int) (commerce.PaymentIntent, error) {
	return commerce.PaymentIntent{
		ClientSecret:    "pi_" + strconv.Itoa(orderID) + "_secret",
		PaymentIntentID: "pi_" + strconv.Itoa(orderID),
	}, nil
}

func (f *fakeCommerce) ConfirmPayment(context.Context, string) (commerce.PaymentConfirmation, error) {
	return commerce.PaymentConfirmation{PaymentStatus: commerce.PaymentSucceeded}, nil
}

func (f *fakeCommerce) MockPayment(_ context.Context, orderID int, cardNumber string) (commerce.MockPaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mockCalls++
	order := f.orders[orderID]
	if !strings.HasPrefix(cardNumber, "4") {
		order.PaymentStatus = commerce.PaymentFailed
		f.orders[orderID] = order
		return commerce.MockPaymentResult{Status: commerce.PaymentFailed, OrderID: orderID, Message: "Payment failed. Use a card number starting with 4."}, nil
	}
	order.PaymentStatus = commerce.PaymentSucceeded
	order.Status = commerce.OrderConfirmed
	f.orders[orderID] = order
	return commerce.MockPaymentResult{Status: commerce.PaymentSucceeded, OrderID: orderID}, nil
}

func (f *fakeCommerce) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func newMachine(t *testing.T, api *fakeCommerce, mode payment.Mode) *checkoutflow.Machine {
	t.Helper()
	strategy, err := payment.New(mode, api)
	require.NoError(t, err)
	var seq int
	machine, err := checkoutflow.NewMachine(checkoutflow.Config{
		Commerce: api,
		Payments: strategy,
		Store:    checkoutflow.NewMemoryStore(16, time.Hour),
		NewID: func() string {
			seq++
			return "flow-" + strconv.Itoa(seq)
		},
	})
	require.NoError(t, err)
	return machine
}

func headphones(quantity int) commerce.CartItem {
	return commerce.CartItem{
		ID:        1,
		ProductID: 9001,
		Quantity:  quantity,
		Product: commerce.Product{
			ID:    9001,
			Name:  "Studio Headphones",
			Price: decimal.RequireFromString("199.99"),
		},
	}
}
