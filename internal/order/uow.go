package order

import (
	"context"
	"database/sql"

	"restopos-be/internal/db"
	"restopos-be/internal/table"
)

// Stores are the repositories bound to one transaction.
type Stores struct {
	Orders    Repository
	Tables    table.Repository
	Occupancy *table.OccupancyManager
}

// TxManager runs fn inside a transaction. fn's error rolls it back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}

type sqlTxManager struct {
	db *sql.DB
}

func NewTxManager(conn *sql.DB) TxManager {
	return &sqlTxManager{db: conn}
}

func (m *sqlTxManager) WithinTx(ctx context.Context, fn func(Stores) error) error {
	return db.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		return fn(NewStores(tx))
	})
}

func NewStores(conn db.DBTX) Stores {
	orders := NewRepository(conn)
	tables := table.NewRepository(conn)
	return Stores{
		Orders:    orders,
		Tables:    tables,
		Occupancy: table.NewOccupancyManager(tables, orders),
	}
}
