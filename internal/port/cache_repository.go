package port

import "context"

type CacheRepository interface {
	// SetStock mirrors the remaining copy count of an item for read-side consumers
	SetStock(ctx context.Context, itemID uint64, quantity int64) error

	// GetStock reads the mirrored copy count, ok=false when no mirror exists
	GetStock(ctx context.Context, itemID uint64) (quantity int64, ok bool, err error)

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
