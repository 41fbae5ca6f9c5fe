package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

const DefaultStockChannel = "ice_creams:stock_updated"

type RedisAdapter struct {
	client  *redis.Client
	channel string
}

func NewRedisAdapter(client *redis.Client, channel string) *RedisAdapter {
	if channel == "" {
		channel = DefaultStockChannel
	}
	return &RedisAdapter{client: client, channel: channel}
}

func (r *RedisAdapter) PublishStockUpdated(ctx context.Context, item domain.InventoryItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal stock update: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish stock update: %w", err)
	}

	return nil
}

func (r *RedisAdapter) Channel() string {
	return r.channel
}

// NopPublisher is used when no Redis address is configured.
type NopPublisher struct{}

func (NopPublisher) PublishStockUpdated(context.Context, domain.InventoryItem) error {
	return nil
}
