package port

import (
	"context"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

type StockRepository interface {
	// EnsureSchema creates the ice_creams table if it does not exist
	EnsureSchema(ctx context.Context) error

	// SeedIfEmpty inserts the default flavours when the table has no rows, reports whether it did
	SeedIfEmpty(ctx context.Context) (bool, error)

	// ListAll returns every item ordered by id
	ListAll(ctx context.Context) ([]domain.InventoryItem, error)

	// UpdateByName replaces the stock levels of the named item and returns the stored row
	UpdateByName(ctx context.Context, name string, levels domain.StockLevels) (domain.InventoryItem, error)

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
}
