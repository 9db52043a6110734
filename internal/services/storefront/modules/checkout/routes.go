package checkout

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Checkout, h.handleStart)
	mux.HandleFunc(http.MethodPost+" "+routepath.Checkout, h.handleStart)
	mux.HandleFunc(http.MethodGet+" "+routepath.CheckoutPrefix+"{$}", h.handleStart)

	mux.HandleFunc(http.MethodGet+" "+routepath.CheckoutConfirmation, h.handleConfirmation)
	mux.HandleFunc(http.MethodGet+" "+routepath.CheckoutFlowPattern, h.handleFlow)

	mux.HandleFunc(http.MethodPost+" "+routepath.CheckoutShippingPattern, h.handleShipping)
	mux.HandleFunc(http.MethodPost+" "+routepath.CheckoutPaymentPattern, h.handlePayment)
	mux.HandleFunc(http.MethodPost+" "+routepath.CheckoutBackPattern, h.handleBack)
}
