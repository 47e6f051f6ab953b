package notification

import (
	"context"
	"fmt"
	"strings"

	"restopos-be/internal/db"
	"restopos-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const notificationColumns = 10

// CreateBatch inserts all records in one statement.
func (r *repository) CreateBatch(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO notifications (
		id, type, title, message, staff_id, customer_id,
		push_channel, order_id, created_at, updated_at
	) VALUES `)

	args := make([]any, 0, len(notifications)*notificationColumns)
	for i, n := range notifications {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * notificationColumns
		sb.WriteString("(")
		for c := 1; c <= notificationColumns; c++ {
			if c > 1 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "$%d", base+c)
		}
		sb.WriteString(")")

		args = append(args,
			n.ID, n.Type, n.Title, n.Message, n.StaffID, n.CustomerID,
			n.PushChannel, n.OrderID, n.CreatedAt, n.UpdatedAt,
		)
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert notifications",
			zap.Int("count", len(notifications)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrFailedCreateNotification, err)
	}
	return nil
}
