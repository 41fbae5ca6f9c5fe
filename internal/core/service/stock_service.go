package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/icecream-stock/internal/core/domain"
	"github.com/rl1809/icecream-stock/internal/port"
)

var ErrItemNotFound = domain.ErrItemNotFound

type StockService struct {
	repo      port.StockRepository
	publisher port.StockPublisher
	logger    *zap.Logger
}

func NewStockService(repo port.StockRepository, publisher port.StockPublisher, logger *zap.Logger) *StockService {
	return &StockService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Bootstrap prepares the table and baseline rows. It must finish before any request is served.
func (s *StockService) Bootstrap(ctx context.Context) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	s.logger.Info("ice_creams table checked")

	seeded, err := s.repo.SeedIfEmpty(ctx)
	if err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	if seeded {
		s.logger.Info("initial ice cream data inserted", zap.Int("count", len(domain.SeedItemNames)))
	}

	return nil
}

func (s *StockService) ListStock(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return items, nil
}

func (s *StockService) UpdateStock(ctx context.Context, name string, levels domain.StockLevels) (domain.InventoryItem, error) {
	item, err := s.repo.UpdateByName(ctx, name, levels)
	if errors.Is(err, ErrItemNotFound) {
		return domain.InventoryItem{}, ErrItemNotFound
	}
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("update stock: %w", err)
	}

	// The row is committed at this point; a lost notification must not fail the request.
	if err := s.publisher.PublishStockUpdated(ctx, item); err != nil {
		s.logger.Error("failed to publish stock update",
			zap.String("name", item.Name),
			zap.Error(err),
		)
	}

	return item, nil
}

// Ping reports whether storage is reachable.
func (s *StockService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
