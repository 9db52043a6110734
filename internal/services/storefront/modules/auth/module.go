package auth

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Config carries the auth module's collaborators.
type Config struct {
	Sessions SessionGateway
	Accounts AccountGateway
	Limiter  Limiter
	Binder   *forms.Binder
	Scheme   requestmeta.SchemePolicy
	Base     modulehandler.Base
}

// Module provides login, registration, and logout routes.
type Module struct {
	sessions SessionGateway
	accounts AccountGateway
	limiter  Limiter
	binder   *forms.Binder
	scheme   requestmeta.SchemePolicy
	base     modulehandler.Base
}

// New returns an auth module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithConfig returns an auth module with explicit collaborators.
func NewWithConfig(cfg Config) Module {
	return Module{
		sessions: cfg.Sessions,
		accounts: cfg.Accounts,
		limiter:  cfg.Limiter,
		binder:   cfg.Binder,
		scheme:   cfg.Scheme,
		base:     cfg.Base,
	}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Healthy reports whether sign-in can reach the commerce API.
func (m Module) Healthy() bool {
	if m.sessions == nil || m.accounts == nil {
		return false
	}
	if _, unavailable := m.sessions.(unavailableGateway); unavailable {
		return false
	}
	_, unavailable := m.accounts.(unavailableGateway)
	return !unavailable
}

// Mount wires auth route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.sessions, m.accounts)
	h := newHandlers(svc, m.limiter, m.binder, m.scheme, m.base)
	registerRoutes(mux, h)
	return module.Mount{
		Paths:   []string{routepath.Login, routepath.Register, routepath.Logout},
		Handler: mux,
	}, nil
}
