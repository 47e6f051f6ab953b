package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restopos-be/internal/customer"
	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"
	"restopos-be/internal/staff"
	"restopos-be/internal/table"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewOrderRoles are the staff roles told about every new order.
var NewOrderRoles = []staff.Role{staff.RoleCashier, staff.RoleManager, staff.RoleOwner}

// Dispatcher builds and stores notification records for order events and
// hands them to the publisher. Nothing is retried.
type Dispatcher struct {
	repo      Repository
	staff     staff.Repository
	customers customer.Repository
	tables    table.Repository
	publisher Publisher
	metrics   *metrics.Registry
	now       func() time.Time
}

func NewDispatcher(
	repo Repository,
	staffRepo staff.Repository,
	customers customer.Repository,
	tables table.Repository,
	publisher Publisher,
	reg *metrics.Registry,
) *Dispatcher {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Dispatcher{
		repo:      repo,
		staff:     staffRepo,
		customers: customers,
		tables:    tables,
		publisher: publisher,
		metrics:   reg,
		now:       time.Now,
	}
}

// DispatchNewOrder notifies active cashiers, managers and owners of the
// restaurant, plus the customer when a push channel is registered. A failed
// recipient lookup is reported but does not hold back the other recipients.
func (d *Dispatcher) DispatchNewOrder(ctx context.Context, ref OrderRef) ([]Notification, error) {
	var (
		out     []Notification
		lookups []error
	)

	members, err := d.staff.GetActiveStaffByRole(ctx, ref.RestaurantID, NewOrderRoles)
	if err != nil {
		lookups = append(lookups, d.lookupFailed(ctx, "DispatchNewOrder", "staff", ref, err))
	}
	for _, m := range members {
		out = append(out, d.staffNotification(ref, m.ID, TypeNewOrder,
			"New order",
			fmt.Sprintf("Order %s placed at table %s.", ref.OrderNumber, ref.TableNumber),
		))
	}

	customerN, err := d.customerNotification(ctx, ref, TypeNewOrder,
		"Order received",
		fmt.Sprintf("Your order %s has been received.", ref.OrderNumber),
	)
	if err != nil {
		lookups = append(lookups, d.lookupFailed(ctx, "DispatchNewOrder", "customer", ref, err))
	}
	if customerN != nil {
		out = append(out, *customerN)
	}

	sent, err := d.emit(ctx, "DispatchNewOrder", ref, out)
	if err != nil {
		return nil, err
	}
	return sent, errors.Join(lookups...)
}

// DispatchOrderReady notifies the customer and the waiter assigned to the
// order's table.
func (d *Dispatcher) DispatchOrderReady(ctx context.Context, ref OrderRef) ([]Notification, error) {
	var (
		out     []Notification
		lookups []error
	)

	customerN, err := d.customerNotification(ctx, ref, TypeOrderReady,
		"Your order is ready",
		fmt.Sprintf("Order %s is ready and on its way to your table.", ref.OrderNumber),
	)
	if err != nil {
		lookups = append(lookups, d.lookupFailed(ctx, "DispatchOrderReady", "customer", ref, err))
	}
	if customerN != nil {
		out = append(out, *customerN)
	}

	t, err := d.tables.GetTable(ctx, ref.TableID)
	if err != nil {
		lookups = append(lookups, d.lookupFailed(ctx, "DispatchOrderReady", "waiter", ref, err))
	}
	if t != nil && t.AssignedWaiterID != nil {
		out = append(out, d.staffNotification(ref, *t.AssignedWaiterID, TypeOrderReady,
			"Order ready",
			fmt.Sprintf("Order %s for table %s is ready to serve.", ref.OrderNumber, t.Number),
		))
	}

	sent, err := d.emit(ctx, "DispatchOrderReady", ref, out)
	if err != nil {
		return nil, err
	}
	return sent, errors.Join(lookups...)
}

func (d *Dispatcher) lookupFailed(ctx context.Context, method, leg string, ref OrderRef, err error) error {
	logger.FromCtx(ctx).Warn("recipient lookup failed, notifying the rest",
		zap.String("layer", "notification"),
		zap.String("method", method),
		zap.String("leg", leg),
		zap.String("order_id", ref.ID.String()),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %s: %v", ErrFailedResolveRecipients, leg, err)
}

func (d *Dispatcher) staffNotification(ref OrderRef, staffID uuid.UUID, typ Type, title, msg string) Notification {
	n := d.newNotification(ref, typ, title, msg)
	n.StaffID = &staffID
	return n
}

func (d *Dispatcher) customerNotification(ctx context.Context, ref OrderRef, typ Type, title, msg string) (*Notification, error) {
	if ref.CustomerID == nil {
		return nil, nil
	}

	channel, ok, err := d.customers.GetPushChannel(ctx, *ref.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	n := d.newNotification(ref, typ, title, msg)
	customerID := *ref.CustomerID
	n.CustomerID = &customerID
	n.PushChannel = &channel
	return &n, nil
}

func (d *Dispatcher) newNotification(ref OrderRef, typ Type, title, msg string) Notification {
	now := d.now()
	return Notification{
		ID:        uuid.New(),
		Type:      typ,
		Title:     title,
		Message:   msg,
		OrderID:   ref.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *Dispatcher) emit(ctx context.Context, method string, ref OrderRef, out []Notification) ([]Notification, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("method", method),
		zap.String("order_id", ref.ID.String()),
	)

	if len(out) == 0 {
		log.Debug("no recipients resolved")
		return nil, nil
	}

	if err := d.repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	d.metrics.NotificationsEmitted.Add(uint64(len(out)))

	if err := d.publisher.Publish(ctx, out); err != nil {
		d.metrics.PublishFailures.Inc()
		log.Warn("notification publish failed", zap.Error(err))
	}

	log.Info("notifications emitted", zap.Int("count", len(out)))
	return out, nil
}
