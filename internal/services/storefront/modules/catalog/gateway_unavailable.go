package catalog

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) ListProducts(context.Context, int, int) ([]commerce.Product, error) {
	return nil, apperrors.E(apperrors.KindUnavailable, "catalog service is not configured")
}

func (unavailableGateway) GetProduct(context.Context, int) (commerce.Product, error) {
	return commerce.Product{}, apperrors.E(apperrors.KindUnavailable, "catalog service is not configured")
}
