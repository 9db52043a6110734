package catalog

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.Products, h.handleProducts)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProductPattern, h.handleProduct)
	mux.HandleFunc(http.MethodGet+" /{rest...}", h.handleNotFound)
}
