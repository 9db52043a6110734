package checkout

import (
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
)

type shippingForm struct {
	Address string `schema:"shipping_address" validate:"required,min=10"`
}

var shippingMessages = forms.Messages{
	"shipping_address.required": "checkout.shipping.address_required",
	"shipping_address.min":      "checkout.shipping.address_min",
}

type cardForm struct {
	CardNumber string `schema:"card_number" validate:"required"`
	Expiry     string `schema:"expiry" validate:"required,card_expiry"`
	CVC        string `schema:"cvc" validate:"required"`
	Name       string `schema:"card_name" validate:"required"`
}

var cardMessages = forms.Messages{
	"card_number.required": "checkout.payment.card_required",
	"expiry.required":      "checkout.payment.expiry_required",
	"expiry.card_expiry":   "checkout.payment.expiry_invalid",
	"cvc.required":         "checkout.payment.cvc_required",
	"card_name.required":   "checkout.payment.name_required",
}

func (f cardForm) details() payment.Details {
	return payment.Details{
		CardNumber: payment.NormalizeCardNumber(f.CardNumber),
		Expiry:     f.Expiry,
		CVC:        f.CVC,
		Name:       f.Name,
	}
}

// gatewayForm is posted by the provider script after the browser-side
// confirmation finishes.
type gatewayForm struct {
	ProviderStatus  string `schema:"provider_status"`
	PaymentIntentID string `schema:"payment_intent_id"`
	Name            string `schema:"card_name"`
}

func (f gatewayForm) details() payment.Details {
	return payment.Details{
		ProviderStatus:  f.ProviderStatus,
		PaymentIntentID: f.PaymentIntentID,
		Name:            f.Name,
	}
}
