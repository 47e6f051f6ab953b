package order

import (
	"time"

	"github.com/google/uuid"
)

type OrderItemResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menuItemId"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int64     `json:"unitPrice"`
	TotalPrice int64     `json:"totalPrice"`
	Notes      string    `json:"notes,omitempty"`
	PrepTime   *int      `json:"prepTime,omitempty"`
}

type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	RestaurantID      uuid.UUID           `json:"restaurantId"`
	TableID           uuid.UUID           `json:"tableId"`
	CustomerID        *uuid.UUID          `json:"customerId,omitempty"`
	OrderNumber       string              `json:"orderNumber"`
	Items             []OrderItemResponse `json:"items"`
	Subtotal          int64               `json:"subtotal"`
	TaxAmount         int64               `json:"taxAmount"`
	Total             int64               `json:"total"`
	Notes             string              `json:"notes,omitempty"`
	EstimatedPrepTime int                 `json:"estimatedPrepTime"`
	Status            Status              `json:"status"`
	NextStatuses      []Status            `json:"nextStatuses"`
	PaymentStatus     PaymentStatus       `json:"paymentStatus"`
	PaymentMethod     *string             `json:"paymentMethod,omitempty"`
	HandledBy         *uuid.UUID          `json:"handledBy,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	ConfirmedAt       *time.Time          `json:"confirmedAt,omitempty"`
	PreparingAt       *time.Time          `json:"preparingAt,omitempty"`
	ReadyAt           *time.Time          `json:"readyAt,omitempty"`
	ServedAt          *time.Time          `json:"servedAt,omitempty"`
	CompletedAt       *time.Time          `json:"completedAt,omitempty"`
	CancelledAt       *time.Time          `json:"cancelledAt,omitempty"`
	PaidAt            *time.Time          `json:"paidAt,omitempty"`
}

type CreateOrderItemRequest struct {
	MenuItemID uuid.UUID `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes"`
}

type CreateOrderRequest struct {
	RestaurantID uuid.UUID                `json:"restaurantId"`
	TableID      uuid.UUID                `json:"tableId"`
	CustomerID   *uuid.UUID               `json:"customerId"`
	Items        []CreateOrderItemRequest `json:"items"`
	Notes        string                   `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r CreateOrderRequest) ToInput() CreateOrderInput {
	items := make([]CreateOrderItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, CreateOrderItemInput{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			Notes:      it.Notes,
		})
	}
	return CreateOrderInput{
		RestaurantID: r.RestaurantID,
		TableID:      r.TableID,
		CustomerID:   r.CustomerID,
		Items:        items,
		Notes:        r.Notes,
	}
}

func ToOrderResponse(o *Order) *OrderResponse {
	if o == nil {
		return nil
	}

	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:         it.ID,
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			Notes:      it.Notes,
			PrepTime:   it.PrepTime,
		})
	}

	return &OrderResponse{
		ID:                o.ID,
		RestaurantID:      o.RestaurantID,
		TableID:           o.TableID,
		CustomerID:        o.CustomerID,
		OrderNumber:       o.OrderNumber,
		Items:             items,
		Subtotal:          o.Subtotal,
		TaxAmount:         o.TaxAmount,
		Total:             o.Total,
		Notes:             o.Notes,
		EstimatedPrepTime: o.EstimatedPrepTime,
		Status:            o.Status,
		NextStatuses:      NextStatuses(o.Status),
		PaymentStatus:     o.PaymentStatus,
		PaymentMethod:     o.PaymentMethod,
		HandledBy:         o.HandledBy,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		ConfirmedAt:       o.ConfirmedAt,
		PreparingAt:       o.PreparingAt,
		ReadyAt:           o.ReadyAt,
		ServedAt:          o.ServedAt,
		CompletedAt:       o.CompletedAt,
		CancelledAt:       o.CancelledAt,
		PaidAt:            o.PaidAt,
	}
}

func ToOrderResponses(orders []*Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}
