package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

// MySQL has no RETURNING, so the row is locked and read before it is updated.
const (
	mysqlLockItemQuery = `
		SELECT id, name, stock, max_stock, target_stock
		FROM ice_creams WHERE name = ? FOR UPDATE`

	mysqlUpdateItemQuery = `
		UPDATE ice_creams
		SET stock = ?, max_stock = ?, target_stock = ?
		WHERE id = ?`
)

type MySQLAdapter struct {
	sqlStore
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{sqlStore: sqlStore{db: db, schema: mysqlSchema}}
}

func (m *MySQLAdapter) UpdateByName(ctx context.Context, name string, levels domain.StockLevels) (domain.InventoryItem, error) {
	conn, err := m.db.Connx(ctx)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current domain.InventoryItem
	err = tx.GetContext(ctx, &current, mysqlLockItemQuery, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, ErrItemNotFound
	}
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("lock item: %w", err)
	}

	_, err = tx.ExecContext(ctx, mysqlUpdateItemQuery,
		levels.Stock, levels.MaxStock, levels.TargetStock, current.ID,
	)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("update item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.InventoryItem{}, fmt.Errorf("commit update: %w", err)
	}

	return current.Apply(levels), nil
}
