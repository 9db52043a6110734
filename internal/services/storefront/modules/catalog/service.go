package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

const (
	// DefaultPageSize is the product list window when none is requested.
	DefaultPageSize = 12
	// MaxPageSize caps the requested window.
	MaxPageSize = 48
	// FeaturedCount is how many products the home page shows.
	FeaturedCount = 8
)

// CatalogGateway loads products for catalog handlers.
type CatalogGateway interface {
	ListProducts(ctx context.Context, skip, limit int) ([]commerce.Product, error)
	GetProduct(ctx context.Context, id int) (commerce.Product, error)
}

// productPage is one window of the product list.
type productPage struct {
	Products []commerce.Product
	Skip     int
	Limit    int
	HasNext  bool
}

type service struct {
	gateway CatalogGateway
}

func newService(gateway CatalogGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

func (s service) featured(ctx context.Context) ([]commerce.Product, error) {
	return s.gateway.ListProducts(ctx, 0, FeaturedCount)
}

// listProducts asks for one extra product to learn whether a next page exists.
func (s service) listProducts(ctx context.Context, skip, limit int) (productPage, error) {
	skip, limit = normalizeWindow(skip, limit)
	products, err := s.gateway.ListProducts(ctx, skip, limit+1)
	if err != nil {
		return productPage{}, err
	}
	page := productPage{Skip: skip, Limit: limit}
	if len(products) > limit {
		page.HasNext = true
		products = products[:limit]
	}
	page.Products = products
	return page, nil
}

func (s service) getProduct(ctx context.Context, rawID string) (commerce.Product, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || id <= 0 {
		return commerce.Product{}, apperrors.EK(apperrors.KindNotFound, "catalog.pdp.not_found", "product id is invalid")
	}
	product, err := s.gateway.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return commerce.Product{}, apperrors.Wrap(apperrors.KindNotFound, "catalog.pdp.not_found", err)
		}
		return commerce.Product{}, err
	}
	return product, nil
}

func normalizeWindow(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return skip, limit
}
