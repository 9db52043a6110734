// Package routepath stores canonical HTTP paths for storefront modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root                    = "/"
	Health                  = "/healthz"
	Metrics                 = "/metrics"
	StaticPrefix            = "/static/"
	Login                   = "/login"
	Register                = "/register"
	Logout                  = "/logout"
	Products                = "/products"
	ProductsPrefix          = "/products/"
	ProductPattern          = ProductsPrefix + "{productID}"
	Cart                    = "/cart"
	CartPrefix              = "/cart/"
	CartItems               = "/cart/items"
	CartItemPattern         = CartPrefix + "items/{itemID}"
	CartItemRemovePattern   = CartPrefix + "items/{itemID}/remove"
	Checkout                = "/checkout"
	CheckoutPrefix          = "/checkout/"
	CheckoutConfirmation    = "/checkout/confirmation"
	CheckoutFlowPattern     = CheckoutPrefix + "{flowID}"
	CheckoutShippingPattern = CheckoutPrefix + "{flowID}/shipping"
	CheckoutPaymentPattern  = CheckoutPrefix + "{flowID}/payment"
	CheckoutBackPattern     = CheckoutPrefix + "{flowID}/back"
	Orders                  = "/orders"
	OrdersPrefix            = "/orders/"
	OrderPattern            = OrdersPrefix + "{orderID}"
)

// NextQueryKey carries the post-login destination.
const NextQueryKey = "next"

// OrderIDQueryKey carries the order on the confirmation page.
const OrderIDQueryKey = "orderId"

// Product returns the product detail route.
func Product(productID int) string {
	return ProductsPrefix + strconv.Itoa(productID)
}

// ProductsPage returns the product list route for one page window.
func ProductsPage(skip, limit int) string {
	values := url.Values{}
	if skip > 0 {
		values.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if len(values) == 0 {
		return Products
	}
	return Products + "?" + values.Encode()
}

// CartItem returns the cart line route.
func CartItem(itemID int) string {
	return CartPrefix + "items/" + strconv.Itoa(itemID)
}

// CartItemRemove returns the form-friendly cart line removal route.
func CartItemRemove(itemID int) string {
	return CartItem(itemID) + "/remove"
}

// CheckoutFlow returns the checkout flow page.
func CheckoutFlow(flowID string) string {
	return CheckoutPrefix + escapeSegment(flowID)
}

// CheckoutShipping returns the shipping submission route.
func CheckoutShipping(flowID string) string {
	return CheckoutFlow(flowID) + "/shipping"
}

// CheckoutPayment returns the payment submission route.
func CheckoutPayment(flowID string) string {
	return CheckoutFlow(flowID) + "/payment"
}

// CheckoutBack returns the payment → shipping route.
func CheckoutBack(flowID string) string {
	return CheckoutFlow(flowID) + "/back"
}

// CheckoutConfirmationFor returns the confirmation page for an order.
func CheckoutConfirmationFor(orderID int) string {
	return CheckoutConfirmation + "?" + OrderIDQueryKey + "=" + strconv.Itoa(orderID)
}

// Order returns the order detail route.
func Order(orderID int) string {
	return OrdersPrefix + strconv.Itoa(orderID)
}

// LoginWithNext returns the login route that returns to next afterwards.
func LoginWithNext(next string) string {
	next = SafeNext(next)
	if next == "" || next == Root {
		return Login
	}
	return Login + "?" + NextQueryKey + "=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local absolute path, otherwise "".
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") {
		return ""
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return ""
	}
	if parsed.Path == Login || parsed.Path == Register || parsed.Path == Logout {
		return ""
	}
	return next
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
