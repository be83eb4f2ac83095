package port

import (
	"context"

	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
)

// DatabaseRepository is the write-behind journal for the in-memory engine.
// The engine state stays authoritative; the journal is an audit trail.
type DatabaseRepository interface {
	// SaveItem upserts a catalog item snapshot
	SaveItem(ctx context.Context, item domain.Item) error

	// RecordSale persists a sale receipt and refreshes the item snapshot
	RecordSale(ctx context.Context, receipt domain.SaleReceipt) error
}
