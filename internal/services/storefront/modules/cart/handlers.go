package cart

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/platform/money"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// cartService defines the service operations used by cart handlers.
type cartService interface {
	contents(ctx context.Context) (cartContents, error)
	add(ctx context.Context, productID, quantity int) error
	remove(ctx context.Context, rawItemID string) error
}

type addForm struct {
	ProductID int `schema:"product_id" validate:"required,gt=0"`
	Quantity  int `schema:"quantity" validate:"omitempty,gte=1"`
}

type handlers struct {
	modulehandler.Base
	service cartService
	images  imagecdn.Resolver
	binder  *forms.Binder
}

func newHandlers(s service, images imagecdn.Resolver, binder *forms.Binder, base modulehandler.Base) handlers {
	if images == nil {
		images = imagecdn.Passthrough{}
	}
	if binder == nil {
		binder = forms.NewBinder()
	}
	return handlers{Base: base, service: s, images: images, binder: binder}
}

func (h handlers) handleCart(w http.ResponseWriter, r *http.Request) {
	contents, err := h.service.contents(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := h.View(r)
	h.WritePage(w, r, view.T("cart.title"), http.StatusOK, templates.CartPage(templates.CartView{
		View:           view,
		Lines:          cartLines(view.Locale, h.images, contents.Items),
		ItemCount:      contents.ItemCount,
		Total:          money.Format(view.Locale, contents.Total),
		CheckoutAction: routepath.Checkout,
	}))
}

// handleAdd adds a product and returns the shopper to its page.
func (h handlers) handleAdd(w http.ResponseWriter, r *http.Request) {
	var form addForm
	fieldErrs, err := h.binder.Bind(r, &form, nil)
	if err != nil || len(fieldErrs) > 0 {
		h.FlashAndRedirect(w, r, flash.Error("catalog.add_failed"), routepath.Products)
		return
	}
	back := routepath.Product(form.ProductID)
	if err := h.service.add(h.RequestContext(r), form.ProductID, form.Quantity); err != nil {
		if apperrors.IsUnauthorized(err) {
			h.WriteError(w, r, err)
			return
		}
		h.Logger(r).WithError(err).WithField("product_id", form.ProductID).Warn("add to cart failed")
		h.FlashAndRedirect(w, r, flash.Error("catalog.add_failed"), back)
		return
	}
	h.FlashAndRedirect(w, r, flash.Success("catalog.added_to_cart"), back)
}

func (h handlers) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.remove(h.RequestContext(r), r.PathValue("itemID")); err != nil {
		if apperrors.IsUnauthorized(err) {
			h.WriteError(w, r, err)
			return
		}
		h.Logger(r).WithError(err).Warn("remove from cart failed")
		h.FlashAndRedirect(w, r, flash.Error("cart.remove_failed"), routepath.Cart)
		return
	}
	h.FlashAndRedirect(w, r, flash.Success("cart.item_removed"), routepath.Cart)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
