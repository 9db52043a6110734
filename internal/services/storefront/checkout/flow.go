// Package checkout implements the two-step checkout machine: shipping
// then payment, with an order created and the cart snapshotted between
// them.
package checkout

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/louisbranch/storefront/internal/platform/money"
)

// Step is a checkout state.
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
)

var (
	// ErrEmptyCart rejects shipping submission with nothing to buy.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrFlowNotFound covers unknown, expired, and foreign flow ids.
	ErrFlowNotFound = errors.New("checkout: flow not found")
	// ErrWrongStep rejects an action the current step does not allow.
	ErrWrongStep = errors.New("checkout: action not allowed at this step")
)

// Line is one snapshotted cart line.
type Line struct {
	ProductID int
	Name      string
	ImageURL  string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total is UnitPrice × Quantity.
func (l Line) Total() decimal.Decimal {
	return money.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}.Total()
}

// Snapshot is an immutable copy of the cart. Lines are never modified
// after capture.
type Snapshot struct {
	Lines      []Line
	Total      decimal.Decimal
	CapturedAt time.Time
}

// ItemCount sums line quantities.
func (s Snapshot) ItemCount() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Clone copies the snapshot so callers cannot reach the stored lines.
func (s Snapshot) Clone() Snapshot {
	s.Lines = append([]Line(nil), s.Lines...)
	return s
}

// Flow is one checkout attempt bound to a single browser session.
type Flow struct {
	ID    string
	Owner string
	Step  Step
	// OrderID is zero until the shipping step creates the order.
	OrderID         int
	ClientSecret    string
	PaymentIntentID string
	ShippingAddress string
	// Snapshot is set together with OrderID.
	Snapshot  *Snapshot
	CreatedAt time.Time
}

// HasOrder reports whether the order has been created.
func (f Flow) HasOrder() bool {
	return f.OrderID > 0 && f.Snapshot != nil
}

func (f Flow) detached() Flow {
	if f.Snapshot != nil {
		snapshot := f.Snapshot.Clone()
		f.Snapshot = &snapshot
	}
	return f
}

// Store keeps flows by id.
type Store interface {
	Get(id string) (Flow, bool)
	Put(flow Flow)
	Delete(id string)
}

// MemoryStore keeps flows in process memory and forgets them after ttl,
// which stands in for the shopper navigating away.
type MemoryStore struct {
	flows *expirable.LRU[string, Flow]
}

// NewMemoryStore holds at most size flows for ttl each.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryStore{flows: expirable.NewLRU[string, Flow](size, nil, ttl)}
}

// Get implements Store.
func (s *MemoryStore) Get(id string) (Flow, bool) {
	flow, ok := s.flows.Get(id)
	if !ok {
		return Flow{}, false
	}
	return flow.detached(), true
}

// Put implements Store.
func (s *MemoryStore) Put(flow Flow) {
	s.flows.Add(flow.ID, flow.detached())
}

// Delete implements Store.
func (s *MemoryStore) Delete(id string) {
	s.flows.Remove(id)
}
