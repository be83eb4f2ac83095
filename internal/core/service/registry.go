package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
)

// ItemRegistry owns the item catalog and the aggregate sold counter.
// Mutations are serialized behind a single mutex; reads observe a
// consistent snapshot, never a partially-applied purchase.
type ItemRegistry struct {
	mu        sync.RWMutex
	items     map[uint64]*domain.Item
	nextID    uint64
	itemsSold int64

	itemQueue chan domain.Item
}

func NewItemRegistry(queueSize int) *ItemRegistry {
	return &ItemRegistry{
		items:     make(map[uint64]*domain.Item),
		itemQueue: make(chan domain.Item, queueSize),
	}
}

// CreateItem lists an item with quantity sellable copies. Item IDs are
// sequential starting at 0. royaltyReceiver defaults to the seller.
// No funds move on listing.
func (r *ItemRegistry) CreateItem(seller, royaltyReceiver string, price, quantity, royaltyBps int64, metadataURI string) (domain.Item, error) {
	if price <= 0 {
		return domain.Item{}, domain.ErrInvalidPrice
	}
	if quantity <= 0 {
		return domain.Item{}, domain.ErrInvalidQuantity
	}
	if royaltyBps < 0 || royaltyBps > domain.BasisPointsDenominator {
		return domain.Item{}, domain.ErrInvalidRoyalty
	}
	if royaltyReceiver == "" {
		royaltyReceiver = seller
	}

	r.mu.Lock()
	now := time.Now()
	item := &domain.Item{
		ID:              r.nextID,
		Seller:          seller,
		RoyaltyReceiver: royaltyReceiver,
		Price:           price,
		Quantity:        quantity,
		InitialQuantity: quantity,
		RoyaltyBps:      royaltyBps,
		MetadataURI:     metadataURI,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.nextID++
	r.items[item.ID] = item
	created := *item
	r.mu.Unlock()

	r.itemQueue <- created

	log.Info().
		Str("event", "ItemCreated").
		Uint64("item_id", created.ID).
		Str("seller", created.Seller).
		Int64("price", created.Price).
		Int64("quantity", created.Quantity).
		Int64("royalty_bps", created.RoyaltyBps).
		Msg("item listed")

	return created, nil
}

// GetItem returns a snapshot of the item. Exhausted items stay queryable.
func (r *ItemRegistry) GetItem(itemID uint64) (domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	return *item, nil
}

// ListItems returns a snapshot of the whole catalog in listing order.
func (r *ItemRegistry) ListItems() []domain.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Item, 0, len(r.items))
	for id := uint64(0); id < r.nextID; id++ {
		if item, ok := r.items[id]; ok {
			items = append(items, *item)
		}
	}
	return items
}

// ItemsSold returns the aggregate count of copies sold across all items.
func (r *ItemRegistry) ItemsSold() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.itemsSold
}

// ItemQueue exposes created items for write-behind persistence.
func (r *ItemRegistry) ItemQueue() <-chan domain.Item {
	return r.itemQueue
}

func (r *ItemRegistry) Close() {
	close(r.itemQueue)
}

// itemLocked returns the live item record. Caller must hold mu.
func (r *ItemRegistry) itemLocked(itemID uint64) (*domain.Item, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// depleteLocked reduces the remaining copies and advances both sold
// counters, keeping quantity+totalSold == initial. Caller must hold mu;
// only SaleSettlement reaches this.
func (r *ItemRegistry) depleteLocked(item *domain.Item, amount int64) error {
	if item.Quantity < amount {
		return domain.ErrSoldOut
	}
	item.Quantity -= amount
	item.TotalSold += amount
	item.UpdatedAt = time.Now()
	r.itemsSold += amount
	return nil
}
