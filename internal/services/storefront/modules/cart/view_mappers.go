package cart

import (
	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/platform/money"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/producttext"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

const lineImageWidth = 160

func cartLines(loc i18n.Locale, images imagecdn.Resolver, items []commerce.CartItem) []templates.CartLineView {
	if images == nil {
		images = imagecdn.Passthrough{}
	}
	lines := make([]templates.CartLineView, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product.ID == 0 {
			product.ID = item.ProductID
		}
		line := money.Line{UnitPrice: product.Price, Quantity: item.Quantity}
		lines = append(lines, templates.CartLineView{
			ID:           item.ID,
			Name:         producttext.Name(loc, product),
			ImageURL:     images.ImageURL(product.ImageURL, lineImageWidth),
			ProductURL:   routepath.Product(product.ID),
			UnitPrice:    money.Format(loc, product.Price),
			LineTotal:    money.Format(loc, line.Total()),
			Quantity:     item.Quantity,
			RemoveAction: routepath.CartItemRemove(item.ID),
		})
	}
	return lines
}
