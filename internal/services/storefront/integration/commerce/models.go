package commerce

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Timestamp accepts RFC 3339 values and the zone-less ISO form the
// commerce API emits, treating the latter as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		t.Time = time.Time{}
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", value)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// User is an account on the commerce API.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
}

// Auth is the login response.
type Auth struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// RegisterInput is the account registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Product is a catalog entry. Name and description arrive localized
// according to Accept-Language.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     Timestamp       `json:"created_at"`
}

// InStock reports whether at least one unit can be ordered.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// CartItem is one line in the authenticated user's cart.
type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   Product   `json:"product"`
	CreatedAt Timestamp `json:"created_at"`
}

// Order status values.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
	PaymentCanceled  = "canceled"
)

// OrderItem is one purchased line.
type OrderItem struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   Product         `json:"product"`
}

// Order is a placed order.
type Order struct {
	ID              int             `json:"id"`
	UserID          int             `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentIntentID string          `json:"payment_intent_id"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []OrderItem     `json:"order_items"`
	CreatedAt       Timestamp       `json:"created_at"`
	UpdatedAt       Timestamp       `json:"updated_at"`
}

// ItemCount sums line quantities.
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// OrderLine is one requested line when creating an order.
type OrderLine struct {
	ProductID int
	Quantity  int
	Price     decimal.Decimal
}

// OrderInput creates an order. Total is sent exactly as given.
type OrderInput struct {
	Total           decimal.Decimal
	ShippingAddress string
	Lines           []OrderLine
}

type orderLineBody struct {
	ProductID int         `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

type orderBody struct {
	TotalAmount     json.Number     `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []orderLineBody `json:"items"`
}

func (in OrderInput) body() orderBody {
	items := make([]orderLineBody, 0, len(in.Lines))
	for _, line := range in.Lines {
		items = append(items, orderLineBody{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     json.Number(line.Price.String()),
		})
	}
	return orderBody{
		TotalAmount:     json.Number(in.Total.String()),
		ShippingAddress: in.ShippingAddress,
		Items:           items,
	}
}

// PaymentIntent is the gateway intent created for an order.
type PaymentIntent struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// PaymentConfirmation is the reconciled order state after a gateway payment.
type PaymentConfirmation struct {
	OrderID       int    `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	OrderStatus   string `json:"order_status"`
}

// MockPaymentResult is the mock processor response.
type MockPaymentResult struct {
	Status  string `json:"status"`
	OrderID int    `json:"order_id,omitempty"`
	Message string `json:"message"`
}
