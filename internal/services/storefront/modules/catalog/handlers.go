package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// catalogService defines the service operations used by catalog handlers.
type catalogService interface {
	featured(ctx context.Context) ([]commerce.Product, error)
	listProducts(ctx context.Context, skip, limit int) (productPage, error)
	getProduct(ctx context.Context, rawID string) (commerce.Product, error)
}

type handlers struct {
	modulehandler.Base
	service catalogService
	images  imagecdn.Resolver
}

func newHandlers(s service, images imagecdn.Resolver, base modulehandler.Base) handlers {
	if images == nil {
		images = imagecdn.Passthrough{}
	}
	return handlers{Base: base, service: s, images: images}
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	products, err := h.service.featured(ctx)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := h.View(r)
	h.WritePage(w, r, "", http.StatusOK, templates.HomePage(templates.HomeView{
		View:     view,
		Products: productCards(view.Locale, h.images, products),
	}))
}

func (h handlers) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	skip := queryInt(r, "skip")
	limit := queryInt(r, "limit")
	page, err := h.service.listProducts(ctx, skip, limit)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := h.View(r)
	prev, next := pageLinks(page)
	h.WritePage(w, r, view.T("catalog.list.title"), http.StatusOK, templates.ProductListPage(templates.ProductListView{
		View:     view,
		Products: productCards(view.Locale, h.images, page.Products),
		PrevURL:  prev,
		NextURL:  next,
	}))
}

func (h handlers) handleProduct(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	product, err := h.service.getProduct(ctx, r.PathValue("productID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := h.View(r)
	card := productCard(view.Locale, h.images, product, detailImageWidth)
	h.WritePage(w, r, card.Name, http.StatusOK, templates.ProductDetailPage(templates.ProductDetailView{
		View:      view,
		Product:   card,
		AddAction: routepath.CartItems,
		LoginURL:  routepath.LoginWithNext(routepath.Product(product.ID)),
	}))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func queryInt(r *http.Request, key string) int {
	if r == nil || r.URL == nil {
		return 0
	}
	value, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return value
}
