package cart

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Module provides the signed-in shopper's cart routes.
type Module struct {
	gateway CartGateway
	images  imagecdn.Resolver
	binder  *forms.Binder
	base    modulehandler.Base
}

// New returns a cart module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithGateway returns a cart module with explicit gateway and handler dependencies.
func NewWithGateway(gateway CartGateway, images imagecdn.Resolver, binder *forms.Binder, base modulehandler.Base) Module {
	return Module{gateway: gateway, images: images, binder: binder, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "cart" }

// Healthy reports whether the cart module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires cart route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway)
	h := newHandlers(svc, m.images, m.binder, m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.CartPrefix, Handler: mux}, nil
}
