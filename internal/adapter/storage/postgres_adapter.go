package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

const postgresUpdateItemQuery = `
	UPDATE ice_creams
	SET stock = $1, max_stock = $2, target_stock = $3
	WHERE name = $4
	RETURNING id, name, stock, max_stock, target_stock`

type PostgresAdapter struct {
	sqlStore
}

func NewPostgresAdapter(db *sqlx.DB) *PostgresAdapter {
	return &PostgresAdapter{sqlStore: sqlStore{db: db, schema: postgresSchema}}
}

func (p *PostgresAdapter) UpdateByName(ctx context.Context, name string, levels domain.StockLevels) (domain.InventoryItem, error) {
	conn, err := p.db.Connx(ctx)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var item domain.InventoryItem
	err = tx.GetContext(ctx, &item, postgresUpdateItemQuery,
		levels.Stock, levels.MaxStock, levels.TargetStock, name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, ErrItemNotFound
	}
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("update item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.InventoryItem{}, fmt.Errorf("commit update: %w", err)
	}

	return item, nil
}
