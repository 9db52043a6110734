// Package modules defines the storefront module registry.
package modules

import (
	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/auth"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/catalog"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/orders"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the collaborators required to compose the module
// registry. Each field is typed as the narrow interface defined by the
// consuming module, so modules cannot reach clients they were not given.
//
// Request-scoped resolvers (viewer, locale, session teardown) travel
// separately in module.Runtime since the server derives them after
// construction.
type Dependencies struct {
	Images imagecdn.Resolver
	Binder *forms.Binder
	Scheme requestmeta.SchemePolicy

	// Catalog module client.
	Catalog catalog.CatalogGateway

	// Auth module collaborators.
	Sessions     auth.SessionGateway
	Accounts     auth.AccountGateway
	LoginLimiter auth.Limiter

	// Cart module client.
	Cart cart.CartGateway

	// Checkout module collaborators. PublishableKey is rendered only in
	// gateway payment mode.
	Checkout       checkout.FlowMachine
	PublishableKey string

	// Orders module client, shared with the checkout confirmation page.
	Orders orders.OrdersGateway
}
