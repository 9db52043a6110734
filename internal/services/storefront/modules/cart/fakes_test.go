package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
)

// fakeGateway is an in-memory cart. Mutations are recorded.
type fakeGateway struct {
	items     []commerce.CartItem
	getErr    error
	addErr    error
	removeErr error

	added   *[][2]int
	removed *[]int
}

var _ CartGateway = fakeGateway{}

func (f fakeGateway) GetCart(context.Context) ([]commerce.CartItem, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.items, nil
}

func (f fakeGateway) AddToCart(_ context.Context, productID, quantity int) (commerce.CartItem, error) {
	if f.addErr != nil {
		return commerce.CartItem{}, f.addErr
	}
	if f.added != nil {
		*f.added = append(*f.added, [2]int{productID, quantity})
	}
	return commerce.CartItem{ID: 1, ProductID: productID, Quantity: quantity}, nil
}

func (f fakeGateway) RemoveFromCart(_ context.Context, itemID int) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	if f.removed != nil {
		*f.removed = append(*f.removed, itemID)
	}
	return nil
}

func cartItem(id, productID int, name, price string, quantity int) commerce.CartItem {
	return commerce.CartItem{
		ID:        id,
		ProductID: productID,
		Quantity:  quantity,
		Product: commerce.Product{
			ID:       productID,
			Name:     name,
			Price:    decimal.RequireFromString(price),
			ImageURL: "https://images.example.com/" + name + ".jpg",
		},
	}
}
