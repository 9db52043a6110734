package orders

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Module provides the signed-in shopper's order history.
type Module struct {
	gateway OrdersGateway
	base    modulehandler.Base
}

// New returns an orders module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithGateway returns an orders module with explicit gateway and handler dependencies.
func NewWithGateway(gateway OrdersGateway, base modulehandler.Base) Module {
	return Module{gateway: gateway, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "orders" }

// Healthy reports whether the orders module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires orders route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway)
	h := newHandlers(svc, m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.OrdersPrefix, Handler: mux}, nil
}
