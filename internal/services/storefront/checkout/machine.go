package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/louisbranch/storefront/internal/platform/money"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
)

// Commerce is the subset of the commerce API checkout calls.
type Commerce interface {
	GetCart(ctx context.Context) ([]commerce.CartItem, error)
	CreateOrder(ctx context.Context, in commerce.OrderInput) (commerce.Order, error)
}

// Invalidator drops cached per-user reads.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// Recorder observes transitions and payment outcomes.
type Recorder interface {
	CheckoutTransition(from, to string, ok bool)
	PaymentOutcome(mode, status string)
}

// Config wires Machine.
type Config struct {
	Commerce    Commerce
	Payments    payment.Strategy
	Store       Store
	Invalidator Invalidator
	Recorder    Recorder
	Logger      logrus.FieldLogger
	Now         func() time.Time
	NewID       func() string
}

// Machine drives checkout flows. Each flow belongs to one session owner;
// lookups by any other owner report ErrFlowNotFound.
type Machine struct {
	api         Commerce
	payments    payment.Strategy
	store       Store
	invalidator Invalidator
	recorder    Recorder
	logger      logrus.FieldLogger
	now         func() time.Time
	newID       func() string
}

// NewMachine validates cfg.
func NewMachine(cfg Config) (*Machine, error) {
	if cfg.Commerce == nil {
		return nil, fmt.Errorf("checkout commerce api is required")
	}
	if cfg.Payments == nil {
		return nil, fmt.Errorf("checkout payment strategy is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("checkout flow store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Machine{
		api:         cfg.Commerce,
		payments:    cfg.Payments,
		store:       cfg.Store,
		invalidator: cfg.Invalidator,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
		now:         cfg.Now,
		newID:       cfg.NewID,
	}, nil
}

// PaymentMode reports the configured payment variant.
func (m *Machine) PaymentMode() payment.Mode {
	return m.payments.Mode()
}

// Start opens a new flow at the shipping step.
func (m *Machine) Start(owner string) (Flow, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return Flow{}, ErrFlowNotFound
	}
	flow := Flow{
		ID:        m.newID(),
		Owner:     owner,
		Step:      StepShipping,
		CreatedAt: m.now().UTC(),
	}
	m.store.Put(flow)
	return flow, nil
}

// Get returns owner's flow id.
func (m *Machine) Get(owner, id string) (Flow, error) {
	flow, ok := m.store.Get(strings.TrimSpace(id))
	if !ok || flow.Owner == "" || flow.Owner != owner {
		return Flow{}, ErrFlowNotFound
	}
	return flow, nil
}

// Summary returns what the order summary should show: a copy of the
// snapshot once the order exists, otherwise a fresh view of the live cart.
// Commerce reads are expected to bypass any response cache.
func (m *Machine) Summary(ctx context.Context, flow Flow) (Snapshot, error) {
	if flow.HasOrder() {
		return flow.Snapshot.Clone(), nil
	}
	items, err := m.api.GetCart(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return capture(items, m.now()), nil
}

// SubmitShipping moves shipping → payment. The first successful call
// snapshots the cart, creates the order with the snapshot total, and
// prepares the payment intent. After Back, the existing order is reused.
// Any failure leaves the stored flow untouched.
func (m *Machine) SubmitShipping(ctx context.Context, owner, id, address string) (Flow, error) {
	flow, err := m.Get(owner, id)
	if err != nil {
		return Flow{}, err
	}
	if flow.Step != StepShipping {
		return flow, ErrWrongStep
	}
	if flow.HasOrder() {
		flow.Step = StepPayment
		m.store.Put(flow)
		m.record(StepShipping, StepPayment, true)
		return flow, nil
	}

	items, err := m.api.GetCart(ctx)
	if err != nil {
		m.record(StepShipping, StepPayment, false)
		return flow, fmt.Errorf("load cart: %w", err)
	}
	snapshot := capture(items, m.now())
	if snapshot.Empty() {
		m.record(StepShipping, StepPayment, false)
		return flow, ErrEmptyCart
	}

	address = strings.TrimSpace(address)
	order, err := m.api.CreateOrder(ctx, orderInput(snapshot, address))
	if err != nil {
		m.record(StepShipping, StepPayment, false)
		return flow, fmt.Errorf("create order: %w", err)
	}
	m.invalidateUser(ctx)
	intent, err := m.payments.Prepare(ctx, order.ID)
	if err != nil {
		m.record(StepShipping, StepPayment, false)
		m.logger.WithFields(logrus.Fields{"order_id": order.ID, "flow_id": flow.ID}).WithError(err).Warn("payment intent failed")
		return flow, fmt.Errorf("prepare payment: %w", err)
	}

	flow.Step = StepPayment
	flow.OrderID = order.ID
	flow.ShippingAddress = address
	flow.Snapshot = &snapshot
	flow.ClientSecret = intent.ClientSecret
	flow.PaymentIntentID = intent.PaymentIntentID
	m.store.Put(flow)
	m.record(StepShipping, StepPayment, true)
	return flow, nil
}

// Back moves payment → shipping, keeping the order and snapshot.
func (m *Machine) Back(owner, id string) (Flow, error) {
	flow, err := m.Get(owner, id)
	if err != nil {
		return Flow{}, err
	}
	if flow.Step != StepPayment {
		return flow, ErrWrongStep
	}
	flow.Step = StepShipping
	m.store.Put(flow)
	m.record(StepPayment, StepShipping, true)
	return flow, nil
}

// Result is the outcome of SubmitPayment.
type Result struct {
	Flow    Flow
	Outcome payment.Outcome
	// Completed is true when the flow has exited; Flow is then the final
	// state and no longer stored.
	Completed bool
}

// SubmitPayment charges the flow's order. Success invalidates the
// caller's cached cart and orders and ends the flow; failure keeps it at
// payment for retry.
func (m *Machine) SubmitPayment(ctx context.Context, owner, id string, details payment.Details) (Result, error) {
	flow, err := m.Get(owner, id)
	if err != nil {
		return Result{}, err
	}
	if flow.Step != StepPayment || !flow.HasOrder() {
		return Result{Flow: flow}, ErrWrongStep
	}

	intent := payment.Intent{ClientSecret: flow.ClientSecret, PaymentIntentID: flow.PaymentIntentID}
	outcome, err := m.payments.Submit(ctx, flow.OrderID, intent, details)
	mode := string(m.payments.Mode())
	if err != nil {
		m.recordPayment(mode, "error")
		return Result{Flow: flow}, fmt.Errorf("submit payment: %w", err)
	}
	m.recordPayment(mode, string(outcome.Status))
	if !outcome.Succeeded() {
		return Result{Flow: flow, Outcome: outcome}, nil
	}

	m.invalidateUser(ctx)
	m.store.Delete(flow.ID)
	return Result{Flow: flow, Outcome: outcome, Completed: true}, nil
}

func (m *Machine) invalidateUser(ctx context.Context) {
	if m.invalidator != nil {
		m.invalidator.InvalidateUser(ctx, commerce.CallerFromContext(ctx).UserID)
	}
}

func (m *Machine) record(from, to Step, ok bool) {
	if m.recorder != nil {
		m.recorder.CheckoutTransition(string(from), string(to), ok)
	}
}

func (m *Machine) recordPayment(mode, status string) {
	if m.recorder != nil {
		m.recorder.PaymentOutcome(mode, status)
	}
}

func capture(items []commerce.CartItem, now time.Time) Snapshot {
	lines := make([]Line, 0, len(items))
	moneyLines := make([]money.Line, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		line := Line{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			ImageURL:  item.Product.ImageURL,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		}
		lines = append(lines, line)
		moneyLines = append(moneyLines, money.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}
	return Snapshot{Lines: lines, Total: money.Sum(moneyLines), CapturedAt: now.UTC()}
}

func orderInput(snapshot Snapshot, address string) commerce.OrderInput {
	lines := make([]commerce.OrderLine, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, commerce.OrderLine{ProductID: line.ProductID, Quantity: line.Quantity, Price: line.UnitPrice})
	}
	return commerce.OrderInput{Total: snapshot.Total, ShippingAddress: address, Lines: lines}
}
