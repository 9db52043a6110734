package modules

import (
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/auth"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/catalog"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/orders"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
)

// DefaultPublicModules returns modules any visitor may reach.
func DefaultPublicModules(deps Dependencies, rt module.Runtime) []Module {
	base := modulehandler.NewBase(rt)
	return []Module{
		catalog.NewWithGateway(deps.Catalog, deps.Images, base),
		auth.NewWithConfig(auth.Config{
			Sessions: deps.Sessions,
			Accounts: deps.Accounts,
			Limiter:  deps.LoginLimiter,
			Binder:   deps.Binder,
			Scheme:   deps.Scheme,
			Base:     base,
		}),
	}
}

// DefaultProtectedModules returns modules that require a signed-in shopper.
func DefaultProtectedModules(deps Dependencies, rt module.Runtime) []Module {
	base := modulehandler.NewBase(rt)
	return []Module{
		cart.NewWithGateway(deps.Cart, deps.Images, deps.Binder, base),
		checkout.NewWithConfig(checkout.Config{
			Flows:          deps.Checkout,
			Orders:         deps.Orders,
			PublishableKey: deps.PublishableKey,
			Images:         deps.Images,
			Binder:         deps.Binder,
			Base:           base,
		}),
		orders.NewWithGateway(deps.Orders, base),
	}
}
