// Package payment implements the interchangeable payment variants used by
// checkout. One variant is chosen at startup; both share Strategy.
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
)

// Mode names a payment variant.
type Mode string

const (
	// ModeMock evaluates card numbers locally and records the result.
	ModeMock Mode = "mock"
	// ModeGateway confirms cards with the external provider in the browser
	// and reconciles the result with the order record.
	ModeGateway Mode = "gateway"
)

// ParseMode validates a configured mode. Empty selects mock.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeMock:
		return ModeMock, nil
	case ModeGateway, "stripe":
		return ModeGateway, nil
	default:
		return "", fmt.Errorf("unknown payment mode %q", raw)
	}
}

// Status is the outcome of one submission.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Localization keys for failed outcomes.
const (
	KeyDeclined = "checkout.payment.declined"
	KeyFailed   = "checkout.payment.failed"
)

// Details is what the payment form posts. Card fields are used by the mock
// variant; provider fields by the gateway variant.
type Details struct {
	CardNumber      string
	Expiry          string
	CVC             string
	Name            string
	ProviderStatus  string
	PaymentIntentID string
}

// Intent is prepared before the payment step renders.
type Intent struct {
	ClientSecret    string
	PaymentIntentID string
}

// Outcome is the result of Submit. Failed outcomes carry a localization
// key; Message holds upstream text when there is any.
type Outcome struct {
	Status  Status
	Message string
	Key     string
}

// Succeeded reports whether the payment went through.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

func failed(key, message string) Outcome {
	return Outcome{Status: StatusFailed, Key: key, Message: message}
}

// Strategy is the payment capability checkout depends on.
type Strategy interface {
	Mode() Mode
	// Prepare runs once when an order is created.
	Prepare(ctx context.Context, orderID int) (Intent, error)
	// Submit charges orderID. A returned error is a request failure; a
	// declined payment is a failed Outcome with a nil error.
	Submit(ctx context.Context, orderID int, intent Intent, details Details) (Outcome, error)
}

// API is the subset of the commerce API the variants call.
type API interface {
	CreatePaymentIntent(ctx context.Context, orderID int) (commerce.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) (commerce.PaymentConfirmation, error)
	MockPayment(ctx context.Context, orderID int, cardNumber string) (commerce.MockPaymentResult, error)
}

// New returns the variant for mode.
func New(mode Mode, api API) (Strategy, error) {
	if api == nil {
		return nil, fmt.Errorf("payment api is required")
	}
	switch mode {
	case ModeMock:
		return Mock{api: api}, nil
	case ModeGateway:
		return Gateway{api: api}, nil
	default:
		return nil, fmt.Errorf("unknown payment mode %q", mode)
	}
}

// NormalizeCardNumber strips the spaces users type between digit groups.
func NormalizeCardNumber(raw string) string {
	return strings.Join(strings.Fields(raw), "")
}

// Mock accepts card numbers that begin with 4. Every attempt is posted so
// the backend records the order's payment status; a card outside the rule
// is declined even if the backend reports otherwise.
type Mock struct {
	api API
}

// Mode implements Strategy.
func (Mock) Mode() Mode { return ModeMock }

// Prepare is a no-op for the mock variant.
func (Mock) Prepare(context.Context, int) (Intent, error) { return Intent{}, nil }

// Submit implements Strategy.
func (m Mock) Submit(ctx context.Context, orderID int, _ Intent, details Details) (Outcome, error) {
	number := NormalizeCardNumber(details.CardNumber)
	result, err := m.api.MockPayment(ctx, orderID, number)
	if err != nil {
		return Outcome{}, err
	}
	switch {
	case result.Status != commerce.PaymentSucceeded:
		return failed(KeyDeclined, result.Message), nil
	case !strings.HasPrefix(number, "4"):
		return failed(KeyDeclined, ""), nil
	}
	return Outcome{Status: StatusSucceeded, Message: result.Message}, nil
}

// Gateway reconciles a provider-confirmed payment with the order record.
type Gateway struct {
	api API
}

// Mode implements Strategy.
func (Gateway) Mode() Mode { return ModeGateway }

// Prepare creates the payment intent whose client secret the browser uses.
func (g Gateway) Prepare(ctx context.Context, orderID int) (Intent, error) {
	intent, err := g.api.CreatePaymentIntent(ctx, orderID)
	if err != nil {
		return Intent{}, err
	}
	if strings.TrimSpace(intent.ClientSecret) == "" {
		return Intent{}, fmt.Errorf("payment intent for order %d has no client secret", orderID)
	}
	return Intent{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.PaymentIntentID}, nil
}

// Submit implements Strategy. The intent id posted by the browser must
// match the one prepared for this order.
func (g Gateway) Submit(ctx context.Context, _ int, intent Intent, details Details) (Outcome, error) {
	if !strings.EqualFold(strings.TrimSpace(details.ProviderStatus), string(StatusSucceeded)) {
		return failed(KeyFailed, ""), nil
	}
	intentID := strings.TrimSpace(details.PaymentIntentID)
	if intentID == "" {
		intentID = intent.PaymentIntentID
	}
	if intentID == "" || (intent.PaymentIntentID != "" && intentID != intent.PaymentIntentID) {
		return failed(KeyFailed, ""), nil
	}
	confirmation, err := g.api.ConfirmPayment(ctx, intentID)
	if err != nil {
		return Outcome{}, err
	}
	if confirmation.PaymentStatus != commerce.PaymentSucceeded {
		return failed(KeyFailed, ""), nil
	}
	return Outcome{Status: StatusSucceeded}, nil
}
