package orders

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

// OrdersGateway reads the caller's orders.
type OrdersGateway interface {
	ListOrders(ctx context.Context) ([]commerce.Order, error)
	GetOrder(ctx context.Context, id int) (commerce.Order, error)
}

type service struct {
	gateway OrdersGateway
}

func newService(gateway OrdersGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// list returns orders newest first. Orders without a timestamp keep their
// upstream position relative to each other.
func (s service) list(ctx context.Context) ([]commerce.Order, error) {
	orders, err := s.gateway.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	sorted := append([]commerce.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt.Time)
	})
	return sorted, nil
}

func (s service) get(ctx context.Context, rawID string) (commerce.Order, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || id <= 0 {
		return commerce.Order{}, apperrors.EK(apperrors.KindNotFound, "orders.not_found", "order not found")
	}
	order, err := s.gateway.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return commerce.Order{}, apperrors.Wrap(apperrors.KindNotFound, "orders.not_found", err)
		}
		return commerce.Order{}, err
	}
	return order, nil
}
