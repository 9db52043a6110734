package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
)

type fakeGateway struct {
	orders  []commerce.Order
	listErr error
}

var _ OrdersGateway = fakeGateway{}

func (f fakeGateway) ListOrders(context.Context) ([]commerce.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

func (f fakeGateway) GetOrder(_ context.Context, id int) (commerce.Order, error) {
	for _, order := range f.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return commerce.Order{}, &commerce.APIError{Status: 404, Detail: "Order not found"}
}

func order(id int, day int, status, paymentStatus string) commerce.Order {
	return commerce.Order{
		ID:              id,
		TotalAmount:     decimal.RequireFromString("199.99"),
		Status:          status,
		PaymentStatus:   paymentStatus,
		ShippingAddress: "1 Main Street, Springfield",
		CreatedAt:       commerce.Timestamp{Time: time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC)},
		Items: []commerce.OrderItem{{
			ProductID: 9001,
			Quantity:  1,
			Price:     decimal.RequireFromString("199.99"),
			Product:   commerce.Product{ID: 9001, Name: "Studio Headphones"},
		}},
	}
}
