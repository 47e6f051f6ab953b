package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restopos-be/internal/db"
	"restopos-be/internal/logger"
	"restopos-be/internal/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	customerForeignKey = "orders_customer_id_fkey"
)

type Repository interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	// GetOrderForUpdate locks the order row until the surrounding
	// transaction ends.
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	// CreateOrder stores the order and its items under the given business
	// day and daily sequence. A taken sequence yields ErrOrderNumberTaken.
	CreateOrder(ctx context.Context, o *Order, day time.Time, seq int) error
	// UpdateOrderStatus writes the status fields of o when the stored
	// version still equals o.Version, then bumps o.Version. A stale version
	// yields ErrVersionConflict.
	UpdateOrderStatus(ctx context.Context, o *Order) error
	CountActiveOrdersForTable(ctx context.Context, tableID uuid.UUID) (int, error)
	CountOrdersForDay(ctx context.Context, restaurantID uuid.UUID, day time.Time) (int, error)
	ListActiveOrders(ctx context.Context, restaurantID uuid.UUID) ([]*Order, error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const selectOrder = `
	SELECT id, restaurant_id, table_id, customer_id, order_number,
		subtotal, tax_amount, total, notes, estimated_prep_time,
		status, payment_status, payment_method, handled_by, version,
		created_at, updated_at, confirmed_at, preparing_at, ready_at,
		served_at, completed_at, cancelled_at, paid_at
	FROM orders`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*Order, error) {
	var (
		o             Order
		customerID    uuid.NullUUID
		handledBy     uuid.NullUUID
		paymentMethod sql.NullString
		confirmedAt   sql.NullTime
		preparingAt   sql.NullTime
		readyAt       sql.NullTime
		servedAt      sql.NullTime
		completedAt   sql.NullTime
		cancelledAt   sql.NullTime
		paidAt        sql.NullTime
	)

	err := row.Scan(
		&o.ID, &o.RestaurantID, &o.TableID, &customerID, &o.OrderNumber,
		&o.Subtotal, &o.TaxAmount, &o.Total, &o.Notes, &o.EstimatedPrepTime,
		&o.Status, &o.PaymentStatus, &paymentMethod, &handledBy, &o.Version,
		&o.CreatedAt, &o.UpdatedAt, &confirmedAt, &preparingAt, &readyAt,
		&servedAt, &completedAt, &cancelledAt, &paidAt,
	)
	if err != nil {
		return nil, err
	}

	if customerID.Valid {
		o.CustomerID = &customerID.UUID
	}
	if handledBy.Valid {
		o.HandledBy = &handledBy.UUID
	}
	if paymentMethod.Valid {
		o.PaymentMethod = utils.StrPtr(paymentMethod.String)
	}
	o.ConfirmedAt = timePtr(confirmedAt)
	o.PreparingAt = timePtr(preparingAt)
	o.ReadyAt = timePtr(readyAt)
	o.ServedAt = timePtr(servedAt)
	o.CompletedAt = timePtr(completedAt)
	o.CancelledAt = timePtr(cancelledAt)
	o.PaidAt = timePtr(paidAt)

	return &o, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *repository) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.get(ctx, selectOrder+" WHERE id = $1", id)
}

func (r *repository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.get(ctx, selectOrder+" WHERE id = $1 FOR UPDATE", id)
}

func (r *repository) get(ctx context.Context, query string, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get order",
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

func (r *repository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderItem, error) {
	keys := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		keys[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, name, quantity,
			unit_price, total_price, notes, prep_time
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY position
	`, pq.Array(keys))
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query order items",
			zap.Int("order_count", len(orderIDs)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			it       OrderItem
			prepTime sql.NullInt32
		)
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &it.Notes, &prepTime,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if prepTime.Valid {
			it.PrepTime = utils.IntPtr(int(prepTime.Int32))
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}

	return out, rows.Err()
}

func (r *repository) CreateOrder(ctx context.Context, o *Order, day time.Time, seq int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
	)

	var customerID uuid.NullUUID
	if o.CustomerID != nil {
		customerID = uuid.NullUUID{UUID: *o.CustomerID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, restaurant_id, table_id, customer_id, order_number,
			order_date, sequence, subtotal, tax_amount, total,
			notes, estimated_prep_time, status, payment_status, version,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		o.ID, o.RestaurantID, o.TableID, customerID, o.OrderNumber,
		day.Format(time.DateOnly), seq, o.Subtotal, o.TaxAmount, o.Total,
		o.Notes, o.EstimatedPrepTime, o.Status, o.PaymentStatus, o.Version,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			log.Warn("db: order number taken", zap.Int("sequence", seq))
			return ErrOrderNumberTaken
		}
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation && pqErr.Constraint == customerForeignKey {
			log.Warn("db: unknown customer")
			return &ValidationError{Field: "customerId", Reason: "unknown customer"}
		}
		log.Error("db: failed to insert order", zap.Error(err))
		return fmt.Errorf("insert order: %w", err)
	}

	for i, it := range o.Items {
		var prepTime sql.NullInt32
		if it.PrepTime != nil {
			prepTime = sql.NullInt32{Int32: int32(*it.PrepTime), Valid: true}
		}

		_, err = r.db.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, menu_item_id, name, quantity,
				unit_price, total_price, notes, prep_time, position
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			it.ID, o.ID, it.MenuItemID, it.Name, it.Quantity,
			it.UnitPrice, it.TotalPrice, it.Notes, prepTime, i,
		)
		if err != nil {
			log.Error("db: failed to insert order item",
				zap.String("menu_item_id", it.MenuItemID.String()),
				zap.Error(err),
			)
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, o *Order) error {
	var handledBy uuid.NullUUID
	if o.HandledBy != nil {
		handledBy = uuid.NullUUID{UUID: *o.HandledBy, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, handled_by = $3, updated_at = $4,
			confirmed_at = $5, preparing_at = $6, ready_at = $7, served_at = $8,
			completed_at = $9, cancelled_at = $10, paid_at = $11,
			version = version + 1
		WHERE id = $12 AND version = $13
	`,
		o.Status, o.PaymentStatus, handledBy, o.UpdatedAt,
		nullTime(o.ConfirmedAt), nullTime(o.PreparingAt), nullTime(o.ReadyAt), nullTime(o.ServedAt),
		nullTime(o.CompletedAt), nullTime(o.CancelledAt), nullTime(o.PaidAt),
		o.ID, o.Version,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to update order status",
			zap.String("order_id", o.ID.String()),
			zap.String("status", string(o.Status)),
			zap.Error(err),
		)
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	o.Version++
	return nil
}

func (r *repository) CountActiveOrdersForTable(ctx context.Context, tableID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE table_id = $1 AND status NOT IN ($2, $3)
	`, tableID, StatusCompleted, StatusCancelled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active orders: %w", err)
	}
	return count, nil
}

func (r *repository) CountOrdersForDay(ctx context.Context, restaurantID uuid.UUID, day time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE restaurant_id = $1 AND order_date = $2
	`, restaurantID, day.Format(time.DateOnly)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders for day: %w", err)
	}
	return count, nil
}

func (r *repository) ListActiveOrders(ctx context.Context, restaurantID uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+`
		WHERE restaurant_id = $1 AND status NOT IN ($2, $3)
		ORDER BY created_at ASC
	`, restaurantID, StatusCompleted, StatusCancelled)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list active orders",
			zap.String("restaurant_id", restaurantID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()

	orders := []*Order{}
	ids := []uuid.UUID{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}

	return orders, nil
}
