// Package backend is the order persistence collaborator: submission of
// assembled order requests and the committed status transitions driven by
// the lifecycle service.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/dineflow/ordering-api/models"
)

// ErrorClass buckets submission failures so callers can pick messaging and
// decide whether a retry makes sense. There is no automatic retry anywhere;
// resubmission is always an explicit caller action.
type ErrorClass string

const (
	ClassNetwork  ErrorClass = "network"
	ClassAuth     ErrorClass = "auth"
	ClassServer   ErrorClass = "server"
	ClassBusiness ErrorClass = "business"
)

// SubmissionError wraps a failed submission with its cause class.
type SubmissionError struct {
	Class ErrorClass
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed (%s): %v", e.Class, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ErrStaleStatus signals a transition raced a concurrent update: the order
// was no longer in the expected status when the transaction ran.
var ErrStaleStatus = errors.New("order status changed concurrently")

// OrderBackend persists orders and their lifecycle.
type OrderBackend interface {
	// Submit stores the request as a pending order. Returns the persisted
	// order or a *SubmissionError.
	Submit(ctx context.Context, req *models.OrderRequest) (*models.Order, error)

	// Order loads one order with items and status history; (nil, nil)
	// when absent.
	Order(ctx context.Context, id uint) (*models.Order, error)

	OrdersForCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)

	// Transition atomically moves the order from one status to another and
	// appends the matching history entry; both are committed together or
	// not at all. Returns ErrStaleStatus if the order was not in `from`.
	Transition(ctx context.Context, orderID uint, from, to models.OrderStatus, message string) (*models.Order, error)
}
