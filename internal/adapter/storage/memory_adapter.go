package storage

import (
	"context"
	"sync"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

// MemoryAdapter keeps items in process. Selected with DB_DRIVER=memory for local load runs.
type MemoryAdapter struct {
	mu     sync.RWMutex
	items  []domain.InventoryItem
	nextID int64
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{nextID: 1}
}

func (m *MemoryAdapter) EnsureSchema(ctx context.Context) error {
	return nil
}

func (m *MemoryAdapter) SeedIfEmpty(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) > 0 {
		return false, nil
	}
	for _, name := range domain.SeedItemNames {
		m.items = append(m.items, domain.InventoryItem{ID: m.nextID, Name: name})
		m.nextID++
	}
	return true, nil
}

func (m *MemoryAdapter) ListAll(ctx context.Context) ([]domain.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]domain.InventoryItem, len(m.items))
	copy(items, m.items)
	return items, nil
}

func (m *MemoryAdapter) UpdateByName(ctx context.Context, name string, levels domain.StockLevels) (domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].Name == name {
			m.items[i] = m.items[i].Apply(levels)
			return m.items[i], nil
		}
	}
	return domain.InventoryItem{}, ErrItemNotFound
}

func (m *MemoryAdapter) Ping(ctx context.Context) error {
	return nil
}
