package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restopos-be/internal/db"
	"restopos-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (*Restaurant, error)
	// GetMenuItems returns the items found among ids; missing ids are
	// simply absent from the result.
	GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]MenuItem, error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) GetRestaurant(ctx context.Context, id uuid.UUID) (*Restaurant, error) {
	var rest Restaurant
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, is_active, tax_rate, currency
		FROM restaurants
		WHERE id = $1
	`, id).Scan(&rest.ID, &rest.Name, &rest.IsActive, &rest.TaxRate, &rest.Currency)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get restaurant",
			zap.String("restaurant_id", id.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	return &rest, nil
}

func (r *repository) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]MenuItem, error) {
	if len(ids) == 0 {
		return []MenuItem{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, restaurant_id, name, price, prep_time, status
		FROM menu_items
		WHERE id = ANY($1::uuid[])
	`, pq.Array(keys))
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query menu items",
			zap.Int("count", len(ids)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get menu items: %w", err)
	}
	defer rows.Close()

	items := make([]MenuItem, 0, len(ids))
	for rows.Next() {
		var (
			m        MenuItem
			prepTime sql.NullInt32
		)
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Price, &prepTime, &m.Status); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if prepTime.Valid {
			p := int(prepTime.Int32)
			m.PrepTime = &p
		}
		items = append(items, m)
	}

	return items, rows.Err()
}
