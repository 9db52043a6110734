package orders

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/orderview"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// ordersService defines the service operations used by orders handlers.
type ordersService interface {
	list(ctx context.Context) ([]commerce.Order, error)
	get(ctx context.Context, rawID string) (commerce.Order, error)
}

type handlers struct {
	modulehandler.Base
	service ordersService
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.list(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := h.View(r)
	h.WritePage(w, r, view.T("orders.title"), http.StatusOK, templates.OrdersPage(templates.OrdersView{
		View:   view,
		Orders: orderview.MapAll(view.Locale, orders),
	}))
}

func (h handlers) handleOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.get(h.RequestContext(r), r.PathValue("orderID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := h.View(r)
	h.WritePage(w, r, view.T("orders.number", order.ID), http.StatusOK, templates.OrderDetailPage(templates.OrderDetailView{
		View:  view,
		Order: orderview.Map(view.Locale, order),
	}))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
