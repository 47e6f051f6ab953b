package order

import (
	"context"
	"fmt"

	"restopos-be/internal/restaurant"
	"restopos-be/internal/table"

	"github.com/google/uuid"
)

// MaxItemQuantity bounds the quantity of a single order line.
const MaxItemQuantity = 999

// Intake is a validated creation request with its collaborators resolved.
type Intake struct {
	Input      CreateOrderInput
	Restaurant *restaurant.Restaurant
	Table      *table.Table
	MenuItems  map[uuid.UUID]restaurant.MenuItem
}

// IntakeValidator checks a creation request against the restaurant, its
// tables and its menu. It never writes.
type IntakeValidator struct {
	restaurants restaurant.Repository
	tables      table.Repository
}

func NewIntakeValidator(restaurants restaurant.Repository, tables table.Repository) *IntakeValidator {
	return &IntakeValidator{restaurants: restaurants, tables: tables}
}

func (v *IntakeValidator) Validate(ctx context.Context, in CreateOrderInput) (*Intake, error) {
	if err := validateShape(in); err != nil {
		return nil, err
	}

	rest, err := v.restaurants.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !rest.IsActive {
		return nil, ErrRestaurantNotFound
	}

	t, err := v.tables.GetTable(ctx, in.TableID)
	if err != nil {
		return nil, err
	}
	if t.RestaurantID != rest.ID {
		return nil, ErrTableNotFound
	}

	ids := uniqueMenuItemIDs(in.Items)
	found, err := v.restaurants.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	byID := make(map[uuid.UUID]restaurant.MenuItem, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	var unavailable []uuid.UUID
	for _, id := range ids {
		m, ok := byID[id]
		if !ok || !m.Orderable(rest.ID) {
			unavailable = append(unavailable, id)
		}
	}
	if len(unavailable) > 0 {
		return nil, &ItemsUnavailableError{MenuItemIDs: unavailable}
	}

	return &Intake{
		Input:      in,
		Restaurant: rest,
		Table:      t,
		MenuItems:  byID,
	}, nil
}

func validateShape(in CreateOrderInput) error {
	if in.RestaurantID == uuid.Nil {
		return &ValidationError{Field: "restaurantId", Reason: "is required"}
	}
	if in.TableID == uuid.Nil {
		return &ValidationError{Field: "tableId", Reason: "is required"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	for i, item := range in.Items {
		if item.MenuItemID == uuid.Nil {
			return &ValidationError{Field: fmt.Sprintf("items[%d].menuItemId", i), Reason: "is required"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be at least 1"}
		}
		if item.Quantity > MaxItemQuantity {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: fmt.Sprintf("must be at most %d", MaxItemQuantity)}
		}
	}
	return nil
}

// uniqueMenuItemIDs keeps request order.
func uniqueMenuItemIDs(items []CreateOrderItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.MenuItemID]; ok {
			continue
		}
		seen[item.MenuItemID] = struct{}{}
		ids = append(ids, item.MenuItemID)
	}
	return ids
}
