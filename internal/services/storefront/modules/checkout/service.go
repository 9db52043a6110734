package checkout

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	checkoutflow "github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

// FlowMachine drives checkout flows owned by browser sessions.
type FlowMachine interface {
	PaymentMode() payment.Mode
	Start(owner string) (checkoutflow.Flow, error)
	Get(owner, id string) (checkoutflow.Flow, error)
	Summary(ctx context.Context, flow checkoutflow.Flow) (checkoutflow.Snapshot, error)
	SubmitShipping(ctx context.Context, owner, id, address string) (checkoutflow.Flow, error)
	Back(owner, id string) (checkoutflow.Flow, error)
	SubmitPayment(ctx context.Context, owner, id string, details payment.Details) (checkoutflow.Result, error)
}

// OrderGateway reads one of the caller's orders.
type OrderGateway interface {
	GetOrder(ctx context.Context, id int) (commerce.Order, error)
}

var errNoSession = apperrors.E(apperrors.KindUnauthorized, "checkout requires a session")

// stepFailure is a business-rule failure shown inline on the current step.
type stepFailure struct {
	key    string
	detail string
	cause  error
}

func (e stepFailure) Error() string {
	if e.cause == nil {
		return e.key
	}
	return e.key + ": " + e.cause.Error()
}

func (e stepFailure) Unwrap() error { return e.cause }

type service struct {
	flows  FlowMachine
	orders OrderGateway
}

func newService(flows FlowMachine, orders OrderGateway) service {
	if flows == nil {
		flows = unavailableGateway{}
	}
	if orders == nil {
		orders = unavailableGateway{}
	}
	return service{flows: flows, orders: orders}
}

func (s service) paymentMode() payment.Mode {
	return s.flows.PaymentMode()
}

func (s service) start(owner string) (checkoutflow.Flow, error) {
	if strings.TrimSpace(owner) == "" {
		return checkoutflow.Flow{}, errNoSession
	}
	return s.flows.Start(owner)
}

// load returns the flow and the summary it should display.
func (s service) load(ctx context.Context, owner, id string) (checkoutflow.Flow, checkoutflow.Snapshot, error) {
	flow, err := s.flows.Get(owner, id)
	if err != nil {
		return checkoutflow.Flow{}, checkoutflow.Snapshot{}, err
	}
	summary, err := s.flows.Summary(ctx, flow)
	if err != nil {
		return flow, checkoutflow.Snapshot{}, err
	}
	return flow, summary, nil
}

// submitShipping classifies machine failures: business-rule and upstream
// rejections become stepFailure; session and flow errors pass through.
func (s service) submitShipping(ctx context.Context, owner, id, address string) (checkoutflow.Flow, error) {
	flow, err := s.flows.SubmitShipping(ctx, owner, id, address)
	if err == nil {
		return flow, nil
	}
	switch {
	case errors.Is(err, checkoutflow.ErrEmptyCart):
		return flow, stepFailure{key: "checkout.error.empty_cart", cause: err}
	case passThrough(err):
		return flow, err
	default:
		return flow, stepFailure{key: "checkout.error.order_failed", detail: upstreamDetail(err), cause: err}
	}
}

func (s service) back(owner, id string) (checkoutflow.Flow, error) {
	return s.flows.Back(owner, id)
}

// submitPayment returns a declined payment as a result with a failed
// outcome, and a failed request as a stepFailure.
func (s service) submitPayment(ctx context.Context, owner, id string, details payment.Details) (checkoutflow.Result, error) {
	result, err := s.flows.SubmitPayment(ctx, owner, id, details)
	if err == nil || passThrough(err) {
		return result, err
	}
	return result, stepFailure{key: payment.KeyFailed, detail: upstreamDetail(err), cause: err}
}

func (s service) confirmation(ctx context.Context, rawOrderID string) (commerce.Order, error) {
	orderID, err := strconv.Atoi(strings.TrimSpace(rawOrderID))
	if err != nil || orderID <= 0 {
		return commerce.Order{}, apperrors.EK(apperrors.KindNotFound, "orders.not_found", "order not found")
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return commerce.Order{}, apperrors.Wrap(apperrors.KindNotFound, "orders.not_found", err)
		}
		return commerce.Order{}, err
	}
	return order, nil
}

func passThrough(err error) bool {
	return errors.Is(err, checkoutflow.ErrFlowNotFound) ||
		errors.Is(err, checkoutflow.ErrWrongStep) ||
		apperrors.IsUnauthorized(err) ||
		isUnavailable(err)
}

func isUnavailable(err error) bool {
	var appErr apperrors.Error
	return errors.As(err, &appErr) && appErr.Kind == apperrors.KindUnavailable
}

// upstreamDetail returns the commerce API's explanation, if any.
func upstreamDetail(err error) string {
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return strings.TrimSpace(apiErr.Detail)
	}
	return ""
}
