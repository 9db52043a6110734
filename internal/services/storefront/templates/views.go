package templates

import (
	"github.com/a-h/templ"

	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
)

// ProductCard is a product as listed or detailed.
type ProductCard struct {
	ID          int
	Name        string
	Description string
	Category    string
	Price       string
	ImageURL    string
	URL         string
	Stock       int
	InStock     bool
}

// HomeView is the landing page.
type HomeView struct {
	View
	Products []ProductCard
}

// ProductListView is one page of the catalog.
type ProductListView struct {
	View
	Products []ProductCard
	PrevURL  string
	NextURL  string
}

// ProductDetailView is the product page with its add-to-cart form.
type ProductDetailView struct {
	View
	Product   ProductCard
	AddAction string
	LoginURL  string
}

// LoginView is the sign-in form.
type LoginView struct {
	View
	Action string
	Email  string
	Next   string
	Errors forms.Errors
	// Failed is a localization key for a form-level failure.
	Failed string
}

// RegisterView is the account creation form.
type RegisterView struct {
	View
	Action string
	Name   string
	Email  string
	Errors forms.Errors
	Failed string
	// Detail is upstream text explaining a failed registration.
	Detail string
}

// CartLineView is one cart row.
type CartLineView struct {
	ID           int
	Name         string
	ImageURL     string
	ProductURL   string
	UnitPrice    string
	LineTotal    string
	Quantity     int
	RemoveAction string
}

// CartView is the cart page.
type CartView struct {
	View
	Lines          []CartLineView
	ItemCount      int
	Total          string
	CheckoutAction string
}

// SummaryLineView is one line of the checkout order summary.
type SummaryLineView struct {
	Name      string
	ImageURL  string
	Quantity  int
	LineTotal string
}

// SummaryView is the checkout order summary.
type SummaryView struct {
	Lines     []SummaryLineView
	ItemCount int
	Total     string
}

// CheckoutView is shared by both checkout steps.
type CheckoutView struct {
	View
	FlowID  string
	Step    string
	Summary SummaryView
	Errors  forms.Errors
	// Failed is a localization key for a step-level failure.
	Failed string
	// Detail is upstream text shown under Failed.
	Detail string
}

// ShippingView is the shipping step. Locked shows the address of an
// already created order as read-only.
type ShippingView struct {
	CheckoutView
	Action  string
	Address string
	Locked  bool
}

// PaymentView is the payment step. Gateway fields are set only in
// gateway mode.
type PaymentView struct {
	CheckoutView
	Action         string
	BackAction     string
	Gateway        bool
	CardName       string
	Expiry         string
	PublishableKey string
	ClientSecret   string
	IntentID       string
}

// OrderItemView is one order line.
type OrderItemView struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// OrderView is an order row or detail.
type OrderView struct {
	ID              int
	URL             string
	CreatedAt       string
	Status          string
	StatusLabel     string
	PaymentStatus   string
	PaymentLabel    string
	Total           string
	ShippingAddress string
	ItemCount       int
	Items           []OrderItemView
}

// OrdersView is the order history page.
type OrdersView struct {
	View
	Orders []OrderView
}

// OrderDetailView is one order page.
type OrderDetailView struct {
	View
	Order OrderView
}

// ConfirmationView is shown after a successful payment.
type ConfirmationView struct {
	View
	Order OrderView
}

// ErrorView is the app error state.
type ErrorView struct {
	View
	Status  int
	Message string
}

// HomePage renders the landing page.
func HomePage(v HomeView) templ.Component { return page("catalog_home", v) }

// ProductListPage renders the product list.
func ProductListPage(v ProductListView) templ.Component { return page("catalog_list", v) }

// ProductDetailPage renders the product page.
func ProductDetailPage(v ProductDetailView) templ.Component { return page("catalog_detail", v) }

// LoginPage renders the sign-in form.
func LoginPage(v LoginView) templ.Component { return page("auth_login", v) }

// RegisterPage renders the registration form.
func RegisterPage(v RegisterView) templ.Component { return page("auth_register", v) }

// CartPage renders the cart.
func CartPage(v CartView) templ.Component { return page("cart_page", v) }

// ShippingPage renders the shipping step.
func ShippingPage(v ShippingView) templ.Component { return page("checkout_shipping", v) }

// PaymentPage renders the payment step.
func PaymentPage(v PaymentView) templ.Component { return page("checkout_payment", v) }

// ConfirmationPage renders the post-payment confirmation.
func ConfirmationPage(v ConfirmationView) templ.Component { return page("checkout_confirmation", v) }

// OrdersPage renders the order history.
func OrdersPage(v OrdersView) templ.Component { return page("orders_list", v) }

// OrderDetailPage renders one order.
func OrderDetailPage(v OrderDetailView) templ.Component { return page("orders_detail", v) }

// ErrorPage renders the app error state.
func ErrorPage(v ErrorView) templ.Component { return page("error_state", v) }
