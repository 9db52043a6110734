// Package producttext picks the display name and description of a product
// for a locale. Seeded products carry catalog translations; everything
// else shows the text the commerce API returned.
package producttext

import (
	"strconv"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	i18ncatalog "github.com/louisbranch/storefront/internal/platform/i18n/catalog"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
)

// Name returns the catalog translation for seeded products, or the API name.
func Name(loc i18n.Locale, product commerce.Product) string {
	return NameFor(loc, product.ID, product.Name)
}

// NameFor is Name for callers holding only the product id and API name,
// such as snapshotted cart lines.
func NameFor(loc i18n.Locale, productID int, apiName string) string {
	if name, ok := i18ncatalog.Default().LocaleMessage(string(loc), key(productID, "name")); ok {
		return name
	}
	return strings.TrimSpace(apiName)
}

// Description returns the catalog translation for seeded products, the API
// description, or a generated fallback.
func Description(loc i18n.Locale, product commerce.Product) string {
	if description, ok := i18ncatalog.Default().LocaleMessage(string(loc), key(product.ID, "description")); ok {
		return description
	}
	if description := strings.TrimSpace(product.Description); description != "" {
		return description
	}
	return i18n.T(loc.Printer(), "catalog.fallback_description", Name(loc, product))
}

func key(id int, field string) string {
	return "catalog.product." + strconv.Itoa(id) + "." + field
}
