package cart

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/storefront/internal/platform/money"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

// CartGateway reads and mutates the caller's cart. Implementations drop
// cached cart reads after every successful mutation.
type CartGateway interface {
	GetCart(ctx context.Context) ([]commerce.CartItem, error)
	AddToCart(ctx context.Context, productID, quantity int) (commerce.CartItem, error)
	RemoveFromCart(ctx context.Context, itemID int) error
}

// MaxQuantity caps a single add-to-cart request.
const MaxQuantity = 99

type cartContents struct {
	Items     []commerce.CartItem
	ItemCount int
	Total     decimal.Decimal
}

type service struct {
	gateway CartGateway
}

func newService(gateway CartGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// contents loads the cart and totals it exactly as checkout will.
func (s service) contents(ctx context.Context) (cartContents, error) {
	items, err := s.gateway.GetCart(ctx)
	if err != nil {
		return cartContents{}, err
	}
	kept := make([]commerce.CartItem, 0, len(items))
	lines := make([]money.Line, 0, len(items))
	count := 0
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		kept = append(kept, item)
		lines = append(lines, money.Line{UnitPrice: item.Product.Price, Quantity: item.Quantity})
		count += item.Quantity
	}
	return cartContents{Items: kept, ItemCount: count, Total: money.Sum(lines)}, nil
}

func (s service) add(ctx context.Context, productID, quantity int) error {
	if productID <= 0 {
		return apperrors.EK(apperrors.KindInvalidInput, "catalog.add_failed", "invalid product id")
	}
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	_, err := s.gateway.AddToCart(ctx, productID, quantity)
	return err
}

func (s service) remove(ctx context.Context, rawItemID string) error {
	itemID, err := strconv.Atoi(strings.TrimSpace(rawItemID))
	if err != nil || itemID <= 0 {
		return apperrors.EK(apperrors.KindNotFound, "core.error.not_found", "cart item not found")
	}
	return s.gateway.RemoveFromCart(ctx, itemID)
}
