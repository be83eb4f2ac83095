package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

// RedisAdapter mirrors per-item remaining stock for read-side consumers
// and backs purchase idempotency with SETNX.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetStock(ctx context.Context, itemID uint64, quantity int64) error {
	return r.client.Set(ctx, stockKey(itemID), quantity, 0).Err()
}

func (r *RedisAdapter) GetStock(ctx context.Context, itemID uint64) (int64, bool, error) {
	val, err := r.client.Get(ctx, stockKey(itemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func stockKey(itemID uint64) string {
	return stockKeyPrefix + strconv.FormatUint(itemID, 10)
}
