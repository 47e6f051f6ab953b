package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restopos-be/internal/db"
	"restopos-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetTable(ctx context.Context, id uuid.UUID) (*Table, error)
	// GetTableForUpdate locks the table row until the surrounding
	// transaction ends.
	GetTableForUpdate(ctx context.Context, id uuid.UUID) (*Table, error)
	SetTableStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const selectTable = `
	SELECT id, restaurant_id, number, status, assigned_waiter_id
	FROM tables
	WHERE id = $1`

func (r *repository) GetTable(ctx context.Context, id uuid.UUID) (*Table, error) {
	return r.get(ctx, selectTable, id)
}

func (r *repository) GetTableForUpdate(ctx context.Context, id uuid.UUID) (*Table, error) {
	return r.get(ctx, selectTable+" FOR UPDATE", id)
}

func (r *repository) get(ctx context.Context, query string, id uuid.UUID) (*Table, error) {
	var (
		t      Table
		waiter uuid.NullUUID
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Status, &waiter)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get table",
			zap.String("table_id", id.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get table: %w", err)
	}

	if waiter.Valid {
		t.AssignedWaiterID = &waiter.UUID
	}
	return &t, nil
}

func (r *repository) SetTableStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tables
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to set table status",
			zap.String("table_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrFailedUpdateStatus, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTableNotFound
	}
	return nil
}
