package checkout

import (
	"context"

	checkoutflow "github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

type unavailableGateway struct{}

var errUnavailable = apperrors.E(apperrors.KindUnavailable, "checkout service is not configured")

func (unavailableGateway) PaymentMode() payment.Mode { return payment.ModeMock }

func (unavailableGateway) Start(string) (checkoutflow.Flow, error) {
	return checkoutflow.Flow{}, errUnavailable
}

func (unavailableGateway) Get(string, string) (checkoutflow.Flow, error) {
	return checkoutflow.Flow{}, errUnavailable
}

func (unavailableGateway) Summary(context.Context, checkoutflow.Flow) (checkoutflow.Snapshot, error) {
	return checkoutflow.Snapshot{}, errUnavailable
}

func (unavailableGateway) SubmitShipping(context.Context, string, string, string) (checkoutflow.Flow, error) {
	return checkoutflow.Flow{}, errUnavailable
}

func (unavailableGateway) Back(string, string) (checkoutflow.Flow, error) {
	return checkoutflow.Flow{}, errUnavailable
}

func (unavailableGateway) SubmitPayment(context.Context, string, string, payment.Details) (checkoutflow.Result, error) {
	return checkoutflow.Result{}, errUnavailable
}

func (unavailableGateway) GetOrder(context.Context, int) (commerce.Order, error) {
	return commerce.Order{}, errUnavailable
}
