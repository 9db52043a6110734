package orders

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Orders, h.handleOrders)
	mux.HandleFunc(http.MethodGet+" "+routepath.OrdersPrefix+"{$}", h.handleOrders)
	mux.HandleFunc(http.MethodGet+" "+routepath.OrderPattern, h.handleOrder)
	mux.HandleFunc(http.MethodGet+" "+routepath.OrdersPrefix+"{orderID}/{rest...}", h.handleNotFound)
}
