package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

func TestPostgresUpdateByName_ReturnsUpdatedRow(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)
	repo := NewPostgresAdapter(db)

	mock.ExpectBegin()
	mock.ExpectQuery(postgresUpdateItemQuery).
		WithArgs(12, 20, 15, "Rainbow").
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(2, "Rainbow", 12, 20, 15))
	mock.ExpectCommit()

	item, err := repo.UpdateByName(context.Background(), "Rainbow", domain.StockLevels{Stock: 12, MaxStock: 20, TargetStock: 15})
	require.NoError(t, err)
	assert.Equal(t, domain.InventoryItem{ID: 2, Name: "Rainbow", Stock: 12, MaxStock: 20, TargetStock: 15}, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateByName_NotFoundRollsBack(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)
	repo := NewPostgresAdapter(db)

	mock.ExpectBegin()
	mock.ExpectQuery(postgresUpdateItemQuery).
		WithArgs(1, 1, 1, "Unknown").
		WillReturnRows(sqlmock.NewRows(itemColumns))
	mock.ExpectRollback()

	_, err := repo.UpdateByName(context.Background(), "Unknown", domain.StockLevels{Stock: 1, MaxStock: 1, TargetStock: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateByName_StorageFailureIsNotNotFound(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)
	repo := NewPostgresAdapter(db)

	mock.ExpectBegin()
	mock.ExpectQuery(postgresUpdateItemQuery).
		WithArgs(1, 2, 3, "Rainbow").
		WillReturnError(errors.New("server closed the connection unexpectedly"))
	mock.ExpectRollback()

	_, err := repo.UpdateByName(context.Background(), "Rainbow", domain.StockLevels{Stock: 1, MaxStock: 2, TargetStock: 3})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateByName_BeginFailure(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)
	repo := NewPostgresAdapter(db)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := repo.UpdateByName(context.Background(), "Rainbow", domain.StockLevels{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}
