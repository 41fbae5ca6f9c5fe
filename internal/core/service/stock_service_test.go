package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

// Mock StockRepository
type mockStockRepo struct {
	mu          sync.Mutex
	items       []domain.InventoryItem
	nextID      int64
	schemaCalls int
	failUpdate  error
	failList    error
	failSchema  error
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{nextID: 1}
}

func (m *mockStockRepo) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemaCalls++
	return m.failSchema
}

func (m *mockStockRepo) SeedIfEmpty(ctx context.Context) (bool, error) {
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

func (m *mockStockRepo) ListAll(ctx context.Context) ([]domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failList != nil {
		return nil, m.failList
	}
	out := make([]domain.InventoryItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *mockStockRepo) UpdateByName(ctx context.Context, name string, levels domain.StockLevels) (domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpdate != nil {
		return domain.InventoryItem{}, m.failUpdate
	}
	for i := range m.items {
		if m.items[i].Name == name {
			m.items[i] = m.items[i].Apply(levels)
			return m.items[i], nil
		}
	}
	return domain.InventoryItem{}, domain.ErrItemNotFound
}

func (m *mockStockRepo) Ping(ctx context.Context) error {
	return nil
}

// Mock StockPublisher
type mockPublisher struct {
	mu        sync.Mutex
	published []domain.InventoryItem
	err       error
}

func (m *mockPublisher) PublishStockUpdated(ctx context.Context, item domain.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, item)
	return nil
}

func newSeededService(t *testing.T) (*StockService, *mockStockRepo, *mockPublisher) {
	t.Helper()

	repo := newMockStockRepo()
	pub := &mockPublisher{}
	svc := NewStockService(repo, pub, zap.NewNop())
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, repo, pub
}

func TestBootstrap_SeedsOnce(t *testing.T) {
	svc, repo, _ := newSeededService(t)

	require.NoError(t, svc.Bootstrap(context.Background()))

	items, err := svc.ListStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, 2, repo.schemaCalls)
}

func TestBootstrap_SchemaFailureStops(t *testing.T) {
	repo := newMockStockRepo()
	repo.failSchema = errors.New("connection refused")
	svc := NewStockService(repo, &mockPublisher{}, zap.NewNop())

	err := svc.Bootstrap(context.Background())
	require.Error(t, err)
	assert.Empty(t, repo.items)
}

func TestListStock_FreshTable(t *testing.T) {
	svc, _, _ := newSeededService(t)

	items, err := svc.ListStock(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
		assert.Zero(t, item.Stock)
		assert.Zero(t, item.MaxStock)
		assert.Zero(t, item.TargetStock)
	}
	assert.Equal(t, []string{"Strawberry Cheesecake", "Rainbow", "Honey Cotton Candy", "Cookies & Cream"}, names)
}

func TestUpdateStock_LastWriteWins(t *testing.T) {
	svc, _, pub := newSeededService(t)
	ctx := context.Background()

	before, err := svc.ListStock(ctx)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, err := svc.UpdateStock(ctx, "Honey Cotton Candy", domain.StockLevels{Stock: i, MaxStock: i * 2, TargetStock: i * 3})
		require.NoError(t, err)
	}

	after, err := svc.ListStock(ctx)
	require.NoError(t, err)
	for i := range after {
		if after[i].Name == "Honey Cotton Candy" {
			assert.Equal(t, domain.StockLevels{Stock: 5, MaxStock: 10, TargetStock: 15},
				domain.StockLevels{Stock: after[i].Stock, MaxStock: after[i].MaxStock, TargetStock: after[i].TargetStock})
			continue
		}
		assert.Equal(t, before[i], after[i])
	}
	assert.Len(t, pub.published, 5)
}

func TestUpdateStock_NotFound(t *testing.T) {
	svc, _, pub := newSeededService(t)
	ctx := context.Background()

	before, _ := svc.ListStock(ctx)

	_, err := svc.UpdateStock(ctx, "Unknown", domain.StockLevels{Stock: 1, MaxStock: 1, TargetStock: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)

	after, _ := svc.ListStock(ctx)
	assert.Equal(t, before, after)
	assert.Empty(t, pub.published)
}

func TestUpdateStock_StorageFailureIsWrapped(t *testing.T) {
	svc, repo, _ := newSeededService(t)
	repo.failUpdate = errors.New("connection reset by peer")

	_, err := svc.UpdateStock(context.Background(), "Rainbow", domain.StockLevels{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, err, repo.failUpdate)
}

func TestUpdateStock_PublishFailureDoesNotFailUpdate(t *testing.T) {
	svc, _, pub := newSeededService(t)
	pub.err = errors.New("redis down")

	item, err := svc.UpdateStock(context.Background(), "Rainbow", domain.StockLevels{Stock: 3, MaxStock: 4, TargetStock: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Stock)
}

func TestUpdateStock_Concurrent(t *testing.T) {
	svc, _, pub := newSeededService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := domain.SeedItemNames[n%len(domain.SeedItemNames)]
			if _, err := svc.UpdateStock(ctx, name, domain.StockLevels{Stock: n}); err != nil {
				t.Errorf("update %s: %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	items, err := svc.ListStock(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Len(t, pub.published, 50)
}

func TestListStock_Failure(t *testing.T) {
	svc, repo, _ := newSeededService(t)
	repo.failList = fmt.Errorf("query items: %w", errors.New("i/o timeout"))

	_, err := svc.ListStock(context.Background())
	assert.Error(t, err)
}
