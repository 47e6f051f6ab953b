package order

import (
	"context"
	"errors"
	"time"

	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"
	"restopos-be/internal/notification"
	"restopos-be/internal/preptime"
	"restopos-be/internal/pricing"
	"restopos-be/internal/table"
	"restopos-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxOrderNumberAttempts bounds how often creation recomputes the daily
// sequence after losing a numbering race.
const maxOrderNumberAttempts = 3

type Service interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error)
	TransitionOrder(ctx context.Context, orderID uuid.UUID, requested Status, actorID *uuid.UUID) (*Order, error)
	// CancelOrder cancels an order that has not been confirmed yet.
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	ListActiveOrders(ctx context.Context, restaurantID uuid.UUID) ([]*Order, error)
}

type Dispatcher interface {
	DispatchNewOrder(ctx context.Context, ref notification.OrderRef) ([]notification.Notification, error)
	DispatchOrderReady(ctx context.Context, ref notification.OrderRef) ([]notification.Notification, error)
}

type service struct {
	tx         TxManager
	repo       Repository
	intake     *IntakeValidator
	machine    *StatusMachine
	dispatcher Dispatcher
	metrics    *metrics.Registry
	loc        *time.Location
}

func NewService(
	tx TxManager,
	repo Repository,
	intake *IntakeValidator,
	machine *StatusMachine,
	dispatcher Dispatcher,
	reg *metrics.Registry,
	loc *time.Location,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &service{
		tx:         tx,
		repo:       repo,
		intake:     intake,
		machine:    machine,
		dispatcher: dispatcher,
		metrics:    reg,
		loc:        loc,
	}
}

func (s *service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.String("restaurant_id", in.RestaurantID.String()),
		zap.String("table_id", in.TableID.String()),
		zap.Int("item_count", len(in.Items)),
	)

	log.Info("create order started")

	intake, err := s.intake.Validate(ctx, in)
	if err != nil {
		log.Warn("order rejected at intake", zap.Error(err))
		return nil, err
	}

	o, err := s.buildOrder(intake)
	if errors.Is(err, ErrValidation) {
		log.Warn("order rejected at pricing", zap.Error(err))
		return nil, err
	}
	if err != nil {
		log.Error("failed to price order", zap.Error(err))
		return nil, err
	}

	log.Debug("order priced",
		zap.Int64("subtotal", o.Subtotal),
		zap.Int64("tax", o.TaxAmount),
		zap.Int64("total", o.Total),
		zap.Int("estimated_prep_time", o.EstimatedPrepTime),
	)

	day := utils.StartOfDay(o.CreatedAt.In(s.loc))
	for attempt := 1; ; attempt++ {
		err = s.tx.WithinTx(ctx, func(st Stores) error {
			count, err := st.Orders.CountOrdersForDay(ctx, o.RestaurantID, day)
			if err != nil {
				return err
			}

			seq := count + 1
			o.OrderNumber = utils.GenerateOrderNumber(day, seq)
			if err := st.Orders.CreateOrder(ctx, o, day, seq); err != nil {
				return err
			}

			return st.Occupancy.MarkOccupied(ctx, o.TableID)
		})
		if errors.Is(err, ErrOrderNumberTaken) && attempt < maxOrderNumberAttempts {
			s.metrics.OrderNumberRetries.Inc()
			log.Warn("order number taken, retrying", zap.Int("attempt", attempt))
			continue
		}
		break
	}
	if err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	log = log.With(
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
	)
	log.Info("order created")

	ref := orderRef(o)
	ref.TableNumber = intake.Table.Number
	if _, err := s.dispatcher.DispatchNewOrder(ctx, ref); err != nil {
		log.Error("failed to dispatch new order notifications", zap.Error(err))
	}

	return o, nil
}

func (s *service) buildOrder(in *Intake) (*Order, error) {
	now := s.machine.now()
	o := &Order{
		ID:            uuid.New(),
		RestaurantID:  in.Restaurant.ID,
		TableID:       in.Table.ID,
		CustomerID:    in.Input.CustomerID,
		Notes:         in.Input.Notes,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	lines := make([]pricing.Line, 0, len(in.Input.Items))
	prepTimes := make([]*int, 0, len(in.Input.Items))
	for _, req := range in.Input.Items {
		m := in.MenuItems[req.MenuItemID]
		item := OrderItem{
			ID:         uuid.New(),
			OrderID:    o.ID,
			MenuItemID: m.ID,
			Name:       m.Name,
			Quantity:   req.Quantity,
			UnitPrice:  m.Price,
			TotalPrice: m.Price * int64(req.Quantity),
			Notes:      req.Notes,
			PrepTime:   m.PrepTime,
		}
		o.Items = append(o.Items, item)
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
		prepTimes = append(prepTimes, item.PrepTime)
	}

	breakdown, err := pricing.Compute(lines, in.Restaurant.TaxRate)
	if errors.Is(err, pricing.ErrAmountOverflow) {
		return nil, &ValidationError{Field: "items", Reason: "order total is too large"}
	}
	if err != nil {
		return nil, err
	}
	o.Subtotal = breakdown.Subtotal
	o.TaxAmount = breakdown.Tax
	o.Total = breakdown.Total
	o.EstimatedPrepTime = preptime.Estimate(prepTimes)

	return o, nil
}

func (s *service) TransitionOrder(ctx context.Context, orderID uuid.UUID, requested Status, actorID *uuid.UUID) (*Order, error) {
	return s.transition(ctx, "TransitionOrder", orderID, requested, actorID, nil)
}

func (s *service) CancelOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	pendingOnly := func(o *Order) error {
		if o.Status != StatusPending {
			return &TransitionError{OrderNumber: o.OrderNumber, From: o.Status, To: StatusCancelled}
		}
		return nil
	}
	return s.transition(ctx, "CancelOrder", orderID, StatusCancelled, utils.StaffIDPtr(ctx), pendingOnly)
}

func (s *service) transition(
	ctx context.Context,
	method string,
	orderID uuid.UUID,
	requested Status,
	actorID *uuid.UUID,
	guard func(*Order) error,
) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", method),
		zap.String("order_id", orderID.String()),
		zap.String("requested", string(requested)),
	)

	if !requested.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status " + string(requested)}
	}

	var (
		updated  Order
		released bool
	)
	err := s.tx.WithinTx(ctx, func(st Stores) error {
		current, err := st.Orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}

		next, err := s.machine.Apply(*current, requested, actorID)
		if err != nil {
			return err
		}

		if err := st.Orders.UpdateOrderStatus(ctx, &next); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return &TransitionError{
					OrderNumber: current.OrderNumber,
					From:        current.Status,
					To:          requested,
					Conflict:    true,
				}
			}
			return err
		}

		if next.Status.IsTerminal() {
			released, err = st.Occupancy.ReleaseIfIdle(ctx, next.TableID)
			if errors.Is(err, table.ErrTableNotFound) {
				log.Warn("order table missing, skipping release", zap.String("table_id", next.TableID.String()))
				err = nil
			}
			if err != nil {
				return err
			}
		}

		updated = next
		return nil
	})
	if err != nil {
		var te *TransitionError
		switch {
		case errors.As(err, &te) && te.Conflict:
			s.metrics.TransitionConflicts.Inc()
			log.Warn("transition lost a concurrent update", zap.Error(err))
		case errors.As(err, &te):
			s.metrics.TransitionsRejected.Inc()
			log.Warn("transition rejected", zap.Error(err))
		case errors.Is(err, ErrOrderNotFound):
			log.Warn("order not found")
		default:
			log.Error("failed to transition order", zap.Error(err))
		}
		return nil, err
	}

	s.metrics.TransitionsApplied.Inc()
	if released {
		s.metrics.TablesReleased.Inc()
	}
	log.Info("order status updated",
		zap.String("order_number", updated.OrderNumber),
		zap.String("status", string(updated.Status)),
		zap.Bool("table_released", released),
	)

	if updated.Status == StatusReady {
		if _, err := s.dispatcher.DispatchOrderReady(ctx, orderRef(&updated)); err != nil {
			log.Error("failed to dispatch order ready notifications", zap.Error(err))
		}
	}

	return &updated, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *service) ListActiveOrders(ctx context.Context, restaurantID uuid.UUID) ([]*Order, error) {
	return s.repo.ListActiveOrders(ctx, restaurantID)
}

func orderRef(o *Order) notification.OrderRef {
	return notification.OrderRef{
		ID:           o.ID,
		RestaurantID: o.RestaurantID,
		TableID:      o.TableID,
		CustomerID:   o.CustomerID,
		OrderNumber:  o.OrderNumber,
	}
}
