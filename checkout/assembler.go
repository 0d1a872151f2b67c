// Package checkout assembles a validated cart snapshot plus fulfillment
// context into the canonical order request and drives submission. The cart
// is cleared only after the backend confirms; any failure leaves it
// untouched so the caller can explicitly retry with the same state.
package checkout

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/cart"
	"github.com/dineflow/ordering-api/catalog"
	"github.com/dineflow/ordering-api/config"
	"github.com/dineflow/ordering-api/kvstore"
	"github.com/dineflow/ordering-api/models"
	"github.com/dineflow/ordering-api/reconcile"
)

// Customer is the authenticated identity submitting the order.
type Customer struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Result is a successful checkout: the persisted order (with derived
// estimates) and any non-fatal reconciliation warnings.
type Result struct {
	Order    *models.Order `json:"order"`
	Warnings []string      `json:"warnings,omitempty"`
}

type Assembler struct {
	carts      *cart.Manager
	addons     catalog.AddOnCatalog
	reconciler *reconcile.Reconciler
	backend    backend.OrderBackend
	kv         kvstore.Store
	cfg        config.Config
	now        func() time.Time
}

func NewAssembler(
	carts *cart.Manager,
	menu catalog.MenuCatalog,
	addons catalog.AddOnCatalog,
	b backend.OrderBackend,
	kv kvstore.Store,
	cfg config.Config,
) *Assembler {
	return &Assembler{
		carts:      carts,
		addons:     addons,
		reconciler: reconcile.New(menu),
		backend:    b,
		kv:         kv,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Submit runs the full checkout pipeline for the customer's current cart.
// Returns *ValidationError for locally detected problems (nothing was
// sent), *backend.SubmissionError when the backend call failed (cart
// preserved), or a Result on success (cart cleared).
func (a *Assembler) Submit(ctx context.Context, customer Customer, f Fulfillment) (*Result, error) {
	store := a.carts.ForUser(customer.ID)
	snap := store.Snapshot()

	if len(snap.Lines) == 0 {
		return nil, invalid("cart", "cart is empty")
	}

	address, err := a.resolveAddress(ctx, customer, f)
	if err != nil {
		return nil, err
	}
	if err := a.checkPayment(ctx, customer, f); err != nil {
		return nil, err
	}

	// One catalog snapshot per attempt; mid-attempt catalog changes are
	// deliberately not observed.
	addons, lookupErr := a.addons.ListAvailable(ctx)
	if lookupErr != nil {
		return nil, &backend.SubmissionError{Class: backend.ClassServer, Err: lookupErr}
	}

	rec, recErr := a.reconciler.Reconcile(ctx, snap.Lines, addons)
	if recErr != nil {
		return nil, &backend.SubmissionError{Class: backend.ClassServer, Err: recErr}
	}
	if len(rec.Items) == 0 {
		return nil, invalid("items", "no valid products in cart")
	}

	// Fees are additive and computed exactly once per attempt.
	fee := a.cfg.PickupFee
	if f.OrderType == models.OrderTypeDelivery {
		fee = a.cfg.DeliveryFee
	}
	total := rec.Subtotal().Add(fee)
	if !total.IsPositive() {
		return nil, invalid("total", "order total must be positive, got %s", total)
	}

	req := &models.OrderRequest{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Total:         total,
		PaymentMethod: f.PaymentMethod,
		OrderType:     f.OrderType,
		Address:       address,
		Items:         rec.Items,
		Status:        "submitted",
	}

	order, err := a.backend.Submit(ctx, req)
	if err != nil {
		// Cart untouched; the caller decides whether to resubmit.
		return nil, err
	}

	a.estimate(order)
	// A fresh pending order starts inside its cancellation window.
	order.CanCancel = order.Status == models.OrderStatusPending &&
		a.now().Sub(order.CreatedAt) < a.cfg.CancelWindow
	a.cacheOrder(ctx, customer.ID, order)

	// Only after the backend has confirmed.
	store.Clear()

	return &Result{Order: order, Warnings: rec.Warnings}, nil
}

// resolveAddress enforces the delivery address rule. Pickup orders carry no
// address and skip address validation entirely.
func (a *Assembler) resolveAddress(ctx context.Context, customer Customer, f Fulfillment) (*models.Address, error) {
	switch f.OrderType {
	case models.OrderTypePickup:
		return nil, nil
	case models.OrderTypeDelivery:
	default:
		return nil, invalid("order_type", "order type must be pickup or delivery")
	}

	if f.Address != nil {
		if !f.Address.Complete() {
			return nil, invalid("address", "delivery address is incomplete")
		}
		return f.Address, nil
	}
	if f.AddressID == "" {
		return nil, invalid("address", "a delivery address is required for delivery orders")
	}

	saved, err := a.savedAddresses(ctx, customer.ID)
	if err != nil {
		return nil, &backend.SubmissionError{Class: backend.ClassServer, Err: err}
	}
	for i := range saved {
		if saved[i].Label == f.AddressID {
			return &saved[i], nil
		}
	}
	return nil, invalid("address", "saved address %q not found", f.AddressID)
}

// checkPayment enforces the card rule: inline card details must pass format
// validation unless a saved card is selected.
func (a *Assembler) checkPayment(ctx context.Context, customer Customer, f Fulfillment) error {
	if f.PaymentMethod == "" {
		return invalid("payment_method", "payment method is required")
	}
	if f.PaymentMethod != "card" {
		return nil
	}
	if f.CardID != "" {
		cards, err := a.savedCards(ctx, customer.ID)
		if err != nil {
			return &backend.SubmissionError{Class: backend.ClassServer, Err: err}
		}
		for _, c := range cards {
			if c.ID == f.CardID {
				return nil
			}
		}
		return invalid("card", "saved card %q not found", f.CardID)
	}
	if f.Card == nil {
		return invalid("card", "card details are required for card payment")
	}
	if verr := f.Card.Validate(a.now()); verr != nil {
		return verr
	}
	return nil
}

// estimate derives preparation and delivery times: a base kitchen duration
// plus an increment per item beyond the first, and a fixed transit
// allowance for delivery orders.
func (a *Assembler) estimate(order *models.Order) {
	items := 0
	for _, item := range order.Items {
		items += item.Quantity
	}
	prep := a.cfg.PrepBase
	if items > 1 {
		prep += time.Duration(items-1) * a.cfg.PrepPerExtraItem
	}
	order.EstimatedReadyAt = order.CreatedAt.Add(prep)
	if order.Type == models.OrderTypeDelivery {
		eta := order.EstimatedReadyAt.Add(a.cfg.DeliveryTransit)
		order.EstimatedDeliveryAt = &eta
	}
}

// cacheOrder appends the order to the customer's local order cache. Cache
// failures are logged, not surfaced: the order itself is already committed.
func (a *Assembler) cacheOrder(ctx context.Context, customerID string, order *models.Order) {
	key := kvstore.UserKey(customerID, kvstore.KeyOrders)
	var cached []models.Order
	if raw, err := a.kv.Get(ctx, key); err == nil {
		_ = json.Unmarshal(raw, &cached)
	}
	cached = append(cached, *order)
	raw, err := json.Marshal(cached)
	if err == nil {
		err = a.kv.Set(ctx, key, raw)
	}
	if err != nil {
		log.Printf("⚠️ Failed to cache order %d for user %s: %v", order.ID, customerID, err)
	}
}

func (a *Assembler) savedAddresses(ctx context.Context, customerID string) ([]models.Address, error) {
	raw, err := a.kv.Get(ctx, kvstore.UserKey(customerID, kvstore.KeyAddresses))
	if err == kvstore.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []models.Address
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Assembler) savedCards(ctx context.Context, customerID string) ([]models.SavedCard, error) {
	raw, err := a.kv.Get(ctx, kvstore.UserKey(customerID, kvstore.KeyCards))
	if err == kvstore.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []models.SavedCard
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
