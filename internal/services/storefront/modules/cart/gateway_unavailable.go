package cart

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) GetCart(context.Context) ([]commerce.CartItem, error) {
	return nil, apperrors.E(apperrors.KindUnavailable, "cart service is not configured")
}

func (unavailableGateway) AddToCart(context.Context, int, int) (commerce.CartItem, error) {
	return commerce.CartItem{}, apperrors.E(apperrors.KindUnavailable, "cart service is not configured")
}

func (unavailableGateway) RemoveFromCart(context.Context, int) error {
	return apperrors.E(apperrors.KindUnavailable, "cart service is not configured")
}
