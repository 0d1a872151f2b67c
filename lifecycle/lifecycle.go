// Package lifecycle drives an order's status after submission. The same
// state machine serves the customer cancellation flow and the staff
// fulfillment flow: pending -> preparing -> ready -> delivered, with
// cancelled reachable only from pending.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/models"
)

// TransitionError is a refused transition. No state mutation occurred; the
// reason tells the caller why.
type TransitionError struct {
	From   models.OrderStatus
	To     models.OrderStatus
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s: %s", e.From, e.To, e.Reason)
}

var forwardRank = map[models.OrderStatus]int{
	models.OrderStatusPending:   0,
	models.OrderStatusPreparing: 1,
	models.OrderStatusReady:     2,
	models.OrderStatusDelivered: 3,
}

// CanAdvance validates a staff-initiated move along the forward path.
func CanAdvance(from, to models.OrderStatus) error {
	if from.IsTerminal() {
		return &TransitionError{From: from, To: to, Reason: "order is in a terminal state"}
	}
	toRank, ok := forwardRank[to]
	if !ok {
		return &TransitionError{From: from, To: to, Reason: "not a forward-path status"}
	}
	fromRank, ok := forwardRank[from]
	if !ok {
		return &TransitionError{From: from, To: to, Reason: "order is not on the forward path"}
	}
	if toRank <= fromRank {
		return &TransitionError{From: from, To: to, Reason: "status may only move forward"}
	}
	return nil
}

// Notifier receives every committed transition, e.g. for the staff
// websocket feed.
type Notifier func(models.Order)

// Service applies lifecycle transitions through the order backend.
type Service struct {
	backend backend.OrderBackend
	window  time.Duration
	now     func() time.Time
	notify  Notifier
}

func NewService(b backend.OrderBackend, cancelWindow time.Duration, notify Notifier) *Service {
	return &Service{backend: b, window: cancelWindow, now: time.Now, notify: notify}
}

// Cancel is the customer-initiated transition to cancelled. Allowed only
// while the order is pending and within the cancellation window; the window
// is a wall-clock check made right now, not a scheduled timer.
func (s *Service) Cancel(ctx context.Context, orderID uint, customerID string) (*models.Order, error) {
	order, err := s.backend.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CustomerID != customerID {
		return nil, &TransitionError{To: models.OrderStatusCancelled, Reason: "order not found"}
	}
	if order.Status != models.OrderStatusPending {
		return nil, &TransitionError{
			From: order.Status, To: models.OrderStatusCancelled,
			Reason: "only pending orders can be cancelled",
		}
	}
	if s.now().Sub(order.CreatedAt) >= s.window {
		return nil, &TransitionError{
			From: order.Status, To: models.OrderStatusCancelled,
			Reason: fmt.Sprintf("cancellation window of %s has passed", s.window),
		}
	}

	updated, err := s.backend.Transition(ctx, orderID,
		models.OrderStatusPending, models.OrderStatusCancelled, "cancelled by customer")
	if err != nil {
		return nil, transitionFailure(order.Status, models.OrderStatusCancelled, err)
	}
	s.decorate(updated)
	s.broadcast(updated)
	return updated, nil
}

// Advance is the staff-initiated forward transition. Advancing is the only
// way CanCancel is cleared once processing has begun.
func (s *Service) Advance(ctx context.Context, orderID uint, next models.OrderStatus, message string) (*models.Order, error) {
	order, err := s.backend.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &TransitionError{To: next, Reason: "order not found"}
	}
	if err := CanAdvance(order.Status, next); err != nil {
		return nil, err
	}

	updated, err := s.backend.Transition(ctx, orderID, order.Status, next, message)
	if err != nil {
		return nil, transitionFailure(order.Status, next, err)
	}
	s.decorate(updated)
	s.broadcast(updated)
	return updated, nil
}

// transitionFailure turns a raced commit into a refusal the caller can
// report as a conflict. Anything else passes through untouched.
func transitionFailure(from, to models.OrderStatus, err error) error {
	if errors.Is(err, backend.ErrStaleStatus) {
		return &TransitionError{From: from, To: to, Reason: "order status changed concurrently, reload and retry"}
	}
	return err
}

// Decorate fills computed fields on an order loaded for display.
func (s *Service) Decorate(order *models.Order) { s.decorate(order) }

func (s *Service) decorate(order *models.Order) {
	if order == nil {
		return
	}
	order.CanCancel = order.Status == models.OrderStatusPending &&
		s.now().Sub(order.CreatedAt) < s.window
}

func (s *Service) broadcast(order *models.Order) {
	if s.notify != nil && order != nil {
		s.notify(*order)
	}
}
