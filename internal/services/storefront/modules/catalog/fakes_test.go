package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
)

// fakeGateway implements CatalogGateway with configurable products and
// error injection. It records the last window requested.
type fakeGateway struct {
	products []commerce.Product
	listErr  error
	getErr   error

	lastSkip  *int
	lastLimit *int
}

var _ CatalogGateway = fakeGateway{}

func (f fakeGateway) ListProducts(_ context.Context, skip, limit int) ([]commerce.Product, error) {
	if f.lastSkip != nil {
		*f.lastSkip = skip
	}
	if f.lastLimit != nil {
		*f.lastLimit = limit
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if skip >= len(f.products) {
		return []commerce.Product{}, nil
	}
	end := skip + limit
	if end > len(f.products) {
		end = len(f.products)
	}
	return f.products[skip:end], nil
}

func (f fakeGateway) GetProduct(_ context.Context, id int) (commerce.Product, error) {
	if f.getErr != nil {
		return commerce.Product{}, f.getErr
	}
	for _, product := range f.products {
		if product.ID == id {
			return product, nil
		}
	}
	return commerce.Product{}, &commerce.APIError{Status: 404, Detail: "Product not found"}
}

func product(id int, name, price string, stock int) commerce.Product {
	return commerce.Product{
		ID:            id,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		ImageURL:      "https://images.example.com/" + name + ".jpg",
		Category:      "Electronics",
		StockQuantity: stock,
		IsActive:      true,
	}
}

func manyProducts(n int) []commerce.Product {
	out := make([]commerce.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, product(100+i, "item", "1.00", 1))
	}
	return out
}
