package restaurant

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
	// TaxRate is a percentage, e.g. 18 for 18%.
	TaxRate  decimal.Decimal
	Currency string
}

type MenuItemStatus string

const (
	MenuItemAvailable   MenuItemStatus = "available"
	MenuItemUnavailable MenuItemStatus = "unavailable"
	MenuItemOutOfStock  MenuItemStatus = "out_of_stock"
)

type MenuItem struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Price        int64 // minor units
	PrepTime     *int
	Status       MenuItemStatus
}

func (m MenuItem) Orderable(restaurantID uuid.UUID) bool {
	return m.RestaurantID == restaurantID && m.Status == MenuItemAvailable
}
