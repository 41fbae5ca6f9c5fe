package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

// sqlStore holds the statements that are identical across dialects.
// Every method takes its own connection from the pool and hands it back before returning.
type sqlStore struct {
	db     *sqlx.DB
	schema string
}

func (s *sqlStore) EnsureSchema(ctx context.Context) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, s.schema); err != nil && !isErrorTableExists(err) {
		return fmt.Errorf("create ice_creams table: %w", err)
	}

	return nil
}

func (s *sqlStore) SeedIfEmpty(ctx context.Context) (bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, countItemsQuery); err != nil {
		return false, fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	insert := tx.Rebind(insertSeedItemQuery)
	for _, name := range domain.SeedItemNames {
		if _, err := tx.ExecContext(ctx, insert, name); err != nil {
			return false, fmt.Errorf("insert seed item %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}

	return true, nil
}

func (s *sqlStore) ListAll(ctx context.Context) ([]domain.InventoryItem, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	items := []domain.InventoryItem{}
	if err := conn.SelectContext(ctx, &items, listItemsQuery); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	return items, nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
