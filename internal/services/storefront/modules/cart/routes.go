package cart

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Cart, h.handleCart)
	mux.HandleFunc(http.MethodGet+" "+routepath.CartPrefix+"{$}", h.handleCart)

	mux.HandleFunc(http.MethodPost+" "+routepath.CartItems, h.handleAdd)
	mux.HandleFunc(http.MethodGet+" "+routepath.CartItems, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.CartItemRemovePattern, h.handleRemove)
	mux.HandleFunc(http.MethodDelete+" "+routepath.CartItemPattern, h.handleRemove)

	mux.HandleFunc(http.MethodGet+" "+routepath.CartPrefix+"{rest...}", h.handleNotFound)
}
