package backend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dineflow/ordering-api/models"
)

// GormBackend stores orders in the service database.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (g *GormBackend) Submit(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, &SubmissionError{Class: ClassBusiness, Err: errors.New("order has no items")}
	}

	order := models.Order{
		TrackingCode:  generateTrackingCode(),
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		Type:          req.OrderType,
		Status:        models.OrderStatusPending,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Items:         req.Items,
		CreatedAt:     time.Now(),
	}
	if req.Address != nil {
		addr := *req.Address
		order.DeliveryAddress = &addr
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		event := models.StatusEvent{
			OrderID:   order.ID,
			Status:    models.OrderStatusPending,
			Message:   "order received",
			CreatedAt: order.CreatedAt,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, classify(ctx, err)
	}
	return g.Order(ctx, order.ID)
}

func (g *GormBackend) Order(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := g.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (g *GormBackend) OrdersForCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := g.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Preload("Items").
		Preload("StatusHistory").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (g *GormBackend) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := g.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (g *GormBackend) Transition(ctx context.Context, orderID uint, from, to models.OrderStatus, message string) (*models.Order, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		if order.Status != from {
			return ErrStaleStatus
		}
		if err := tx.Model(&order).Update("status", to).Error; err != nil {
			return err
		}
		event := models.StatusEvent{
			OrderID:   orderID,
			Status:    to,
			Message:   message,
			CreatedAt: time.Now(),
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return g.Order(ctx, orderID)
}

// generateTrackingCode builds a customer-facing order reference, e.g.
// 20250908130500-<uuid4>.
func generateTrackingCode() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// classify maps low-level persistence failures onto the submission error
// taxonomy.
func classify(ctx context.Context, err error) error {
	var sub *SubmissionError
	if errors.As(err, &sub) {
		return err
	}
	class := ClassServer
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		class = ClassNetwork
	}
	return &SubmissionError{Class: class, Err: err}
}
