package checkout

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Config carries the checkout module's collaborators.
type Config struct {
	Flows  FlowMachine
	Orders OrderGateway
	// PublishableKey is the payment provider's browser key, rendered only
	// in gateway mode.
	PublishableKey string
	Images         imagecdn.Resolver
	Binder         *forms.Binder
	Base           modulehandler.Base
}

// Module provides the shipping → payment checkout routes and the
// post-payment confirmation page.
type Module struct {
	cfg Config
}

// New returns a checkout module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithConfig returns a checkout module with explicit collaborators.
func NewWithConfig(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "checkout" }

// Healthy reports whether checkout has a flow machine and order reads.
func (m Module) Healthy() bool {
	if m.cfg.Flows == nil || m.cfg.Orders == nil {
		return false
	}
	if _, unavailable := m.cfg.Flows.(unavailableGateway); unavailable {
		return false
	}
	_, unavailable := m.cfg.Orders.(unavailableGateway)
	return !unavailable
}

// Mount wires checkout route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.cfg.Flows, m.cfg.Orders)
	h := newHandlers(svc, m.cfg, m.cfg.Base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.CheckoutPrefix, Handler: mux}, nil
}
