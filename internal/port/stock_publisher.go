package port

import (
	"context"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

type StockPublisher interface {
	// PublishStockUpdated announces a committed stock change
	PublishStockUpdated(ctx context.Context, item domain.InventoryItem) error
}
