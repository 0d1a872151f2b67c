package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // submitted, kitchen not started
	OrderStatusPreparing OrderStatus = "preparing" // kitchen started
	OrderStatusReady     OrderStatus = "ready"     // ready for pickup / courier
	OrderStatusDelivered OrderStatus = "delivered" // handed to customer
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled while pending
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderAdd is one reconciled, eligibility-verified add-on on an order item.
type OrderAdd struct {
	AddID    string          `json:"add_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// orderAddWire tolerates the two shapes the backend historically emits for
// adds: a full object or a bare id string. Normalized here, on ingress;
// nothing past this point may branch on shape.
type orderAddWire OrderAdd

func (a *OrderAdd) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*a = OrderAdd{AddID: id, Quantity: 1}
		return nil
	}
	var w orderAddWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Quantity == 0 {
		w.Quantity = 1
	}
	*a = OrderAdd(w)
	return nil
}

// OrderItem is one line of an order. Adds holds only verified-eligible,
// canonical add-ons; it is omitted from the wire when empty. Notes carries
// removal/sizing annotations ("no onion") that are never catalog-checked.
type OrderItem struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID        uint            `gorm:"index" json:"-"`
	ProductID      uint            `json:"product_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric" json:"unit_price"`
	Description    string          `json:"description,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Adds           []OrderAdd      `gorm:"serializer:json" json:"adds,omitempty"`
	UnverifiedAdds bool            `json:"unverified_adds,omitempty"`
}

// OrderRequest is the canonical submission payload handed to the order
// backend. Assembled exactly once per checkout attempt.
type OrderRequest struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	OrderType     OrderType       `json:"order_type"`
	Address       *Address        `json:"address,omitempty"`
	Items         []OrderItem     `json:"items"`
	Status        string          `json:"status"` // always "submitted"
}

// StatusEvent is one committed entry of an order's status history. It is
// written in the same transaction as the status change itself.
type StatusEvent struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   uint        `gorm:"index" json:"-"`
	Status    OrderStatus `gorm:"type:VARCHAR(20)" json:"status"`
	Message   string      `json:"message,omitempty"`
	CreatedAt time.Time   `json:"timestamp"`
}

// Order is the canonical lifecycle object for a submitted order.
type Order struct {
	ID                  uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	TrackingCode        string          `gorm:"uniqueIndex" json:"tracking_code"`
	CustomerID          string          `gorm:"index;not null" json:"customer_id"`
	CustomerName        string          `json:"customer_name"`
	Type                OrderType       `gorm:"type:VARCHAR(10)" json:"order_type"`
	Status              OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Total               decimal.Decimal `gorm:"type:numeric" json:"total"`
	PaymentMethod       string          `json:"payment_method"`
	DeliveryAddress     *Address        `gorm:"embedded;embeddedPrefix:addr_" json:"delivery_address,omitempty"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	StatusHistory       []StatusEvent   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history"`
	CreatedAt           time.Time       `json:"created_at"`
	EstimatedReadyAt    time.Time       `gorm:"-" json:"estimated_ready_at,omitempty"`
	EstimatedDeliveryAt *time.Time      `gorm:"-" json:"estimated_delivery_at,omitempty"`
	CanCancel           bool            `gorm:"-" json:"can_cancel"`
}
