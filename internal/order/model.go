package order

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusServed,
	StatusCompleted,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Reason: "unknown status " + v}
	}
	return s, nil
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Order amounts are integer minor units of the restaurant currency.
type Order struct {
	ID                uuid.UUID
	RestaurantID      uuid.UUID
	TableID           uuid.UUID
	CustomerID        *uuid.UUID
	OrderNumber       string
	Items             []OrderItem
	Subtotal          int64
	TaxAmount         int64
	Total             int64
	Notes             string
	EstimatedPrepTime int
	Status            Status
	PaymentStatus     PaymentStatus
	PaymentMethod     *string
	HandledBy         *uuid.UUID
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ConfirmedAt       *time.Time
	PreparingAt       *time.Time
	ReadyAt           *time.Time
	ServedAt          *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	PaidAt            *time.Time
}

// OrderItem keeps the name, price and prep time of the menu item as they
// were when the order was placed.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Quantity   int
	UnitPrice  int64
	TotalPrice int64
	Notes      string
	PrepTime   *int
}

type CreateOrderItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
	Notes      string
}

type CreateOrderInput struct {
	RestaurantID uuid.UUID
	TableID      uuid.UUID
	CustomerID   *uuid.UUID
	Items        []CreateOrderItemInput
	Notes        string
}
