package table

import (
	"context"
	"fmt"

	"restopos-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActiveOrderCounter counts orders on a table whose status is neither
// completed nor cancelled.
type ActiveOrderCounter interface {
	CountActiveOrdersForTable(ctx context.Context, tableID uuid.UUID) (int, error)
}

// OccupancyManager derives table occupancy from order lifecycle events.
// Build one per transaction from transaction-bound stores so that the
// count and the status write observe the same snapshot.
type OccupancyManager struct {
	tables Repository
	orders ActiveOrderCounter
}

func NewOccupancyManager(tables Repository, orders ActiveOrderCounter) *OccupancyManager {
	return &OccupancyManager{tables: tables, orders: orders}
}

func (m *OccupancyManager) MarkOccupied(ctx context.Context, tableID uuid.UUID) error {
	if err := m.tables.SetTableStatus(ctx, tableID, StatusOccupied); err != nil {
		return fmt.Errorf("mark table occupied: %w", err)
	}
	return nil
}

// ReleaseIfIdle sets the table available once no active order references it.
// It reports whether the table was released.
func (m *OccupancyManager) ReleaseIfIdle(ctx context.Context, tableID uuid.UUID) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "occupancy"),
		zap.String("table_id", tableID.String()),
	)

	// Lock first: a concurrent order creation marks the table occupied
	// through the same row.
	t, err := m.tables.GetTableForUpdate(ctx, tableID)
	if err != nil {
		return false, err
	}

	active, err := m.orders.CountActiveOrdersForTable(ctx, tableID)
	if err != nil {
		return false, fmt.Errorf("count active orders: %w", err)
	}

	if active > 0 {
		log.Debug("table still in use", zap.Int("active_orders", active))
		return false, nil
	}
	if t.Status == StatusAvailable {
		return false, nil
	}

	if err := m.tables.SetTableStatus(ctx, tableID, StatusAvailable); err != nil {
		return false, fmt.Errorf("release table: %w", err)
	}

	log.Info("table released")
	return true, nil
}
