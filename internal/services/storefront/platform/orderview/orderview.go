// Package orderview maps commerce orders onto the order templates used by
// order history and checkout confirmation.
package orderview

import (
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/platform/money"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/producttext"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

var dateLayouts = map[i18n.Locale]string{
	i18n.English:  "Jan 2, 2006",
	i18n.Spanish:  "2/1/2006",
	i18n.Chinese:  "2006年1月2日",
	i18n.Japanese: "2006年1月2日",
}

// Map builds the order view in loc. Labels for unknown statuses fall back
// to the raw status text.
func Map(loc i18n.Locale, order commerce.Order) templates.OrderView {
	printer := loc.Printer()
	items := make([]templates.OrderItemView, 0, len(order.Items))
	count := 0
	for _, item := range order.Items {
		line := money.Line{UnitPrice: item.Price, Quantity: item.Quantity}
		items = append(items, templates.OrderItemView{
			Name:      itemName(loc, item),
			Quantity:  item.Quantity,
			UnitPrice: money.Format(loc, item.Price),
			LineTotal: money.Format(loc, line.Total()),
		})
		count += item.Quantity
	}
	status := strings.ToLower(strings.TrimSpace(order.Status))
	paymentStatus := strings.ToLower(strings.TrimSpace(order.PaymentStatus))
	return templates.OrderView{
		ID:              order.ID,
		URL:             routepath.Order(order.ID),
		CreatedAt:       FormatDate(loc, order.CreatedAt.Time),
		Status:          status,
		StatusLabel:     label(printer, "orders.status.", status),
		PaymentStatus:   paymentStatus,
		PaymentLabel:    label(printer, "orders.payment.", paymentStatus),
		Total:           money.Format(loc, order.TotalAmount),
		ShippingAddress: strings.TrimSpace(order.ShippingAddress),
		ItemCount:       count,
		Items:           items,
	}
}

// MapAll maps orders in order.
func MapAll(loc i18n.Locale, orders []commerce.Order) []templates.OrderView {
	out := make([]templates.OrderView, 0, len(orders))
	for _, order := range orders {
		out = append(out, Map(loc, order))
	}
	return out
}

// FormatDate renders t as a calendar date in loc. Zero times render empty.
func FormatDate(loc i18n.Locale, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout, ok := dateLayouts[loc]
	if !ok {
		layout = dateLayouts[i18n.Default]
	}
	return t.UTC().Format(layout)
}

// itemName falls back to "Product #id" when the API omitted the product.
func itemName(loc i18n.Locale, item commerce.OrderItem) string {
	if name := producttext.NameFor(loc, item.ProductID, item.Product.Name); name != "" {
		return name
	}
	return i18n.T(loc.Printer(), "catalog.product_word") + " #" + strconv.Itoa(item.ProductID)
}

func label(printer i18n.Localizer, prefix, status string) string {
	if status == "" {
		return ""
	}
	key := prefix + status
	if text := i18n.T(printer, key); text != key {
		return text
	}
	return status
}
