package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/models"
)

// fakeBackend keeps orders in memory and records transitions the way the
// gorm backend would commit them.
type fakeBackend struct {
	orders map[uint]*models.Order
}

func newFakeBackend(orders ...*models.Order) *fakeBackend {
	fb := &fakeBackend{orders: make(map[uint]*models.Order)}
	for _, o := range orders {
		fb.orders[o.ID] = o
	}
	return fb
}

func (f *fakeBackend) Submit(context.Context, *models.OrderRequest) (*models.Order, error) {
	panic("not used")
}

func (f *fakeBackend) Order(_ context.Context, id uint) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeBackend) OrdersForCustomer(context.Context, string) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeBackend) AllOrders(context.Context) ([]models.Order, error) { return nil, nil }

func (f *fakeBackend) Transition(_ context.Context, id uint, from, to models.OrderStatus, message string) (*models.Order, error) {
	o := f.orders[id]
	if o.Status != from {
		return nil, backend.ErrStaleStatus
	}
	o.Status = to
	o.StatusHistory = append(o.StatusHistory, models.StatusEvent{
		OrderID: id, Status: to, Message: message, CreatedAt: time.Now(),
	})
	cp := *o
	return &cp, nil
}

func pendingOrder(createdAt time.Time) *models.Order {
	return &models.Order{
		ID: 1, CustomerID: "u1",
		Status:    models.OrderStatusPending,
		CreatedAt: createdAt,
	}
}

func service(fb *fakeBackend, at time.Time) *Service {
	s := NewService(fb, 5*time.Minute, nil)
	s.now = func() time.Time { return at }
	return s
}

func TestCancelWithinWindow(t *testing.T) {
	created := time.Now()
	fb := newFakeBackend(pendingOrder(created))
	s := service(fb, created.Add(3*time.Minute))

	order, err := s.Cancel(context.Background(), 1, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.OrderStatusCancelled, order.StatusHistory[0].Status)
}

func TestCancelAfterWindowRefused(t *testing.T) {
	created := time.Now()
	fb := newFakeBackend(pendingOrder(created))
	s := service(fb, created.Add(5*time.Minute))

	_, err := s.Cancel(context.Background(), 1, "u1")
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Reason, "window")
	assert.Equal(t, models.OrderStatusPending, fb.orders[1].Status, "status must be unchanged")
	assert.Empty(t, fb.orders[1].StatusHistory)
}

func TestCancelNonPendingRefused(t *testing.T) {
	created := time.Now()
	o := pendingOrder(created)
	o.Status = models.OrderStatusPreparing
	fb := newFakeBackend(o)
	s := service(fb, created.Add(time.Minute))

	_, err := s.Cancel(context.Background(), 1, "u1")
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.OrderStatusPreparing, fb.orders[1].Status)
}

func TestCancelWrongCustomerRefused(t *testing.T) {
	created := time.Now()
	fb := newFakeBackend(pendingOrder(created))
	s := service(fb, created)

	_, err := s.Cancel(context.Background(), 1, "someone-else")
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "order not found", terr.Reason)
}

func TestAdvanceForwardPath(t *testing.T) {
	created := time.Now()
	fb := newFakeBackend(pendingOrder(created))
	s := service(fb, created)

	var committed []models.Order
	s.notify = func(o models.Order) { committed = append(committed, o) }

	for _, next := range []models.OrderStatus{
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
	} {
		order, err := s.Advance(context.Background(), 1, next, "")
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}
	assert.Len(t, fb.orders[1].StatusHistory, 3)
	assert.Len(t, committed, 3)
}

func TestAdvanceBackwardRefused(t *testing.T) {
	created := time.Now()
	o := pendingOrder(created)
	o.Status = models.OrderStatusReady
	fb := newFakeBackend(o)
	s := service(fb, created)

	_, err := s.Advance(context.Background(), 1, models.OrderStatusPreparing, "")
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.OrderStatusReady, fb.orders[1].Status)
}

func TestTerminalStatesFrozen(t *testing.T) {
	for _, terminal := range []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled} {
		o := pendingOrder(time.Now())
		o.Status = terminal
		fb := newFakeBackend(o)
		s := service(fb, time.Now())

		_, err := s.Advance(context.Background(), 1, models.OrderStatusDelivered, "")
		var terr *TransitionError
		require.ErrorAs(t, err, &terr, "from %s", terminal)
	}
}

func TestAdvanceToCancelledRefused(t *testing.T) {
	fb := newFakeBackend(pendingOrder(time.Now()))
	s := service(fb, time.Now())

	_, err := s.Advance(context.Background(), 1, models.OrderStatusCancelled, "")
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
}

func TestRacedTransitionReportedAsRefusal(t *testing.T) {
	created := time.Now()
	fb := newFakeBackend(pendingOrder(created))
	s := service(fb, created.Add(time.Minute))

	// The status moves between the read and the commit; the stale-guard
	// failure must come back as a refusal, not an internal error.
	s.backend = &racedBackend{fakeBackend: fb}

	_, err := s.Cancel(context.Background(), 1, "u1")
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Reason, "concurrently")

	_, err = s.Advance(context.Background(), 1, models.OrderStatusPreparing, "")
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Reason, "concurrently")
}

// racedBackend flips the stored status after each read, so every commit
// hits the stale-status guard.
type racedBackend struct{ *fakeBackend }

func (r *racedBackend) Order(ctx context.Context, id uint) (*models.Order, error) {
	o, err := r.fakeBackend.Order(ctx, id)
	if o != nil {
		o.Status = models.OrderStatusPending
		r.orders[id].Status = models.OrderStatusPreparing
	}
	return o, err
}

func TestDecorateCanCancel(t *testing.T) {
	created := time.Now()
	fb := newFakeBackend()

	s := service(fb, created.Add(time.Minute))
	order := pendingOrder(created)
	s.Decorate(order)
	assert.True(t, order.CanCancel)

	s = service(fb, created.Add(6*time.Minute))
	order = pendingOrder(created)
	s.Decorate(order)
	assert.False(t, order.CanCancel)

	order = pendingOrder(created)
	order.Status = models.OrderStatusPreparing
	s = service(fb, created.Add(time.Minute))
	s.Decorate(order)
	assert.False(t, order.CanCancel)
}
