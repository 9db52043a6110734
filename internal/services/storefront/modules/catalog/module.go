package catalog

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Module provides the public catalog routes and owns the site-wide 404.
type Module struct {
	gateway CatalogGateway
	images  imagecdn.Resolver
	base    modulehandler.Base
}

// New returns a catalog module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithGateway returns a catalog module with explicit gateway and handler dependencies.
func NewWithGateway(gateway CatalogGateway, images imagecdn.Resolver, base modulehandler.Base) Module {
	return Module{gateway: gateway, images: images, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "catalog" }

// Healthy reports whether the catalog module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires catalog route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway)
	h := newHandlers(svc, m.images, m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Paths: []string{routepath.Products}, Handler: mux}, nil
}
