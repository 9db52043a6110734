package catalog

import (
	"strings"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/platform/money"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/producttext"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

const (
	cardImageWidth   = 480
	detailImageWidth = 960
)

func productCard(loc i18n.Locale, images imagecdn.Resolver, product commerce.Product, width int) templates.ProductCard {
	if images == nil {
		images = imagecdn.Passthrough{}
	}
	return templates.ProductCard{
		ID:          product.ID,
		Name:        producttext.Name(loc, product),
		Description: producttext.Description(loc, product),
		Category:    strings.TrimSpace(product.Category),
		Price:       money.Format(loc, product.Price),
		ImageURL:    images.ImageURL(product.ImageURL, width),
		URL:         routepath.Product(product.ID),
		Stock:       product.StockQuantity,
		InStock:     product.InStock(),
	}
}

func productCards(loc i18n.Locale, images imagecdn.Resolver, products []commerce.Product) []templates.ProductCard {
	cards := make([]templates.ProductCard, 0, len(products))
	for _, product := range products {
		cards = append(cards, productCard(loc, images, product, cardImageWidth))
	}
	return cards
}

func pageLinks(page productPage) (prev, next string) {
	if page.Skip > 0 {
		prevSkip := page.Skip - page.Limit
		if prevSkip < 0 {
			prevSkip = 0
		}
		prev = routepath.ProductsPage(prevSkip, limitParam(page.Limit))
	}
	if page.HasNext {
		next = routepath.ProductsPage(page.Skip+page.Limit, limitParam(page.Limit))
	}
	return prev, next
}

// limitParam omits the default window from generated links.
func limitParam(limit int) int {
	if limit == DefaultPageSize {
		return 0
	}
	return limit
}
