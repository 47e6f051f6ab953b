package transport

import (
	"errors"
	"net/http"

	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"
	"restopos-be/internal/order"
	"restopos-be/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the JSON body of every non-2xx response.
type Error struct {
	Code        int         `json:"code"`
	Message     string      `json:"message"`
	MenuItemIDs []uuid.UUID `json:"menuItemIds,omitempty"`
}

// Server exposes the order workflow over HTTP.
type Server struct {
	orders  order.Service
	metrics *metrics.Registry
}

func NewServer(orders order.Service, reg *metrics.Registry) *Server {
	return &Server{orders: orders, metrics: reg}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req order.CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	o, err := s.orders.CreateOrder(ctx.Request().Context(), req.ToInput())
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, order.ToOrderResponse(o))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: "order not found"})
	}

	var req order.UpdateStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	reqCtx := ctx.Request().Context()
	o, err := s.orders.TransitionOrder(reqCtx, id, status, utils.StaffIDPtr(reqCtx))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, order.ToOrderResponse(o))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: "order not found"})
	}

	o, err := s.orders.CancelOrder(ctx.Request().Context(), id)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, order.ToOrderResponse(o))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: "order not found"})
	}

	o, err := s.orders.GetOrder(ctx.Request().Context(), id)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, order.ToOrderResponse(o))
}

// ListActiveOrders handles GET /api/v1/restaurants/:id/orders/active.
func (s *Server) ListActiveOrders(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: "restaurant not found"})
	}

	orders, err := s.orders.ListActiveOrders(ctx.Request().Context(), id)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, order.ToOrderResponses(orders))
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// Metrics handles GET /internal/metrics.
func (s *Server) Metrics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.metrics.Snapshot())
}

func writeError(ctx echo.Context, err error) error {
	var (
		transition  *order.TransitionError
		unavailable *order.ItemsUnavailableError
		validation  *order.ValidationError
	)

	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrRestaurantNotFound),
		errors.Is(err, order.ErrTableNotFound):
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: err.Error()})

	case errors.As(err, &transition) && transition.Conflict:
		return ctx.JSON(http.StatusConflict, Error{Code: http.StatusConflict, Message: err.Error()})

	case errors.Is(err, order.ErrOrderNumberTaken):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "too many orders placed at once, please retry",
		})

	case errors.As(err, &transition):
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})

	case errors.As(err, &unavailable):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:        http.StatusBadRequest,
			Message:     "some menu items are not available",
			MenuItemIDs: unavailable.MenuItemIDs,
		})

	case errors.As(err, &validation):
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})
	}

	logger.FromCtx(ctx.Request().Context()).Error("unhandled request error",
		zap.String("path", ctx.Path()),
		zap.Error(err),
	)
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
	})
}
