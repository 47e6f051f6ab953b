package staff

import (
	"context"
	"fmt"

	"restopos-be/internal/db"
	"restopos-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetActiveStaffByRole(ctx context.Context, restaurantID uuid.UUID, roles []Role) ([]Member, error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) GetActiveStaffByRole(ctx context.Context, restaurantID uuid.UUID, roles []Role) ([]Member, error) {
	if len(roles) == 0 {
		return []Member{}, nil
	}

	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = string(role)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, restaurant_id, name, role
		FROM staff
		WHERE restaurant_id = $1 AND is_active = TRUE AND role = ANY($2)
		ORDER BY name
	`, restaurantID, pq.Array(roleNames))
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query staff",
			zap.String("restaurant_id", restaurantID.String()),
			zap.Strings("roles", roleNames),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get staff by role: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Role); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
