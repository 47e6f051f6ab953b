package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restopos-be/internal/config"
	"restopos-be/internal/customer"
	"restopos-be/internal/db"
	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"
	"restopos-be/internal/notification"
	"restopos-be/internal/order"
	"restopos-be/internal/restaurant"
	"restopos-be/internal/staff"
	"restopos-be/internal/table"
	"restopos-be/internal/transport"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(e *echo.Echo, addr string) error { return e.Start(addr) }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	conn := initDBFunc(cfg)
	defer conn.Close()

	e, cleanup, err := newServer(cfg, conn)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := ":" + cfg.AppPort
	logger.L().Info("http server listening", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() { errCh <- startServerFunc(e, addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer wires repositories, the order service and the HTTP router on
// top of conn. The returned cleanup closes the notification publisher.
func newServer(cfg *config.Config, conn *sql.DB) (*echo.Echo, func(), error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.TimeZone, err)
	}

	reg := metrics.NewRegistry()

	var publisher notification.Publisher = notification.NopPublisher{}
	cleanup := func() {}
	if len(cfg.KafkaBrokers) > 0 {
		kp := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaNotificationTopic)
		publisher = kp
		cleanup = func() {
			if err := kp.Close(); err != nil {
				logger.L().Warn("failed to close notification publisher", zap.Error(err))
			}
		}
	} else {
		logger.L().Info("KAFKA_BROKERS not set, notification fan-out disabled")
	}

	restaurantRepo := restaurant.NewRepository(conn)
	tableRepo := table.NewRepository(conn)
	orderRepo := order.NewRepository(conn)

	dispatcher := notification.NewDispatcher(
		notification.NewRepository(conn),
		staff.NewRepository(conn),
		customer.NewRepository(conn),
		tableRepo,
		publisher,
		reg,
	)

	orderSvc := order.NewService(
		order.NewTxManager(conn),
		orderRepo,
		order.NewIntakeValidator(restaurantRepo, tableRepo),
		order.NewStatusMachine(time.Now),
		dispatcher,
		reg,
		loc,
	)

	server := transport.NewServer(orderSvc, reg)
	return transport.NewRouter(server, []byte(cfg.JWTSecret)), cleanup, nil
}
