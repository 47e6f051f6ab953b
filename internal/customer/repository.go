package customer

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
	// GetPushChannel reports the customer's registered push channel. An
	// unknown customer or one without a channel yields ok == false.
	GetPushChannel(ctx context.Context, customerID uuid.UUID) (channel string, ok bool, err error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) GetPushChannel(ctx context.Context, customerID uuid.UUID) (string, bool, error) {
	var channel sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT push_channel FROM customers WHERE id = $1",
		customerID,
	).Scan(&channel)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get customer push channel",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
		return "", false, fmt.Errorf("get push channel: %w", err)
	}

	if !channel.Valid || channel.String == "" {
		return "", false, nil
	}
	return channel.String, true, nil
}
