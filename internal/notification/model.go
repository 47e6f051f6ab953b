package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeNewOrder   Type = "new_order"
	TypeOrderReady Type = "order_ready"
)

// Notification is an at-most-once delivery record. Only IsRead changes
// after creation, and not through this service.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	Type        Type       `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	StaffID     *uuid.UUID `json:"staffId,omitempty"`
	CustomerID  *uuid.UUID `json:"customerId,omitempty"`
	PushChannel *string    `json:"pushChannel,omitempty"`
	OrderID     uuid.UUID  `json:"orderId"`
	IsRead      bool       `json:"isRead"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// OrderRef is the part of an order the dispatcher needs.
type OrderRef struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	TableID      uuid.UUID
	TableNumber  string
	CustomerID   *uuid.UUID
	OrderNumber  string
}
