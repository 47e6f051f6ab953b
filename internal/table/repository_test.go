package table

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableColumns = []string{"id", "restaurant_id", "number", "status", "assigned_waiter_id"}

func TestRepository_GetTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id, restaurantID, waiterID := uuid.New(), uuid.New(), uuid.New()

	t.Run("SuccessWithWaiter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, restaurant_id, number, status, assigned_waiter_id FROM tables WHERE id = \$1$`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(tableColumns).
				AddRow(id.String(), restaurantID.String(), "T4", "occupied", waiterID.String()))

		tbl, err := repo.GetTable(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, restaurantID, tbl.RestaurantID)
		assert.Equal(t, StatusOccupied, tbl.Status)
		require.NotNil(t, tbl.AssignedWaiterID)
		assert.Equal(t, waiterID, *tbl.AssignedWaiterID)
	})

	t.Run("ForUpdateWithoutWaiter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM tables WHERE id = \$1 FOR UPDATE`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(tableColumns).
				AddRow(id.String(), restaurantID.String(), "T4", "available", nil))

		tbl, err := repo.GetTableForUpdate(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, tbl.AssignedWaiterID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM tables`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(tableColumns))

		_, err := repo.GetTable(ctx, id)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetTableStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tables SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(StatusOccupied, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetTableStatus(ctx, id, StatusOccupied))
	})

	t.Run("NoRows", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tables`).
			WithArgs(StatusAvailable, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetTableStatus(ctx, id, StatusAvailable), ErrTableNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tables`).
			WillReturnError(errors.New("db error"))

		assert.ErrorIs(t, repo.SetTableStatus(ctx, id, StatusAvailable), ErrFailedUpdateStatus)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
