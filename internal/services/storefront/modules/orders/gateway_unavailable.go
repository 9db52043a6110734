package orders

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) ListOrders(context.Context) ([]commerce.Order, error) {
	return nil, apperrors.E(apperrors.KindUnavailable, "orders service is not configured")
}

func (unavailableGateway) GetOrder(context.Context, int) (commerce.Order, error) {
	return commerce.Order{}, apperrors.E(apperrors.KindUnavailable, "orders service is not configured")
}
