package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
)

// OrderFulfillment issues sequential offer identifiers and tracks each
// offer until it reaches a terminal state. Offer IDs start at 0, grow by
// exactly 1 per offer and are never reused, even after cancellation.
type OrderFulfillment struct {
	mu     sync.RWMutex
	offers map[uint64]*domain.Offer
	nextID uint64
}

func NewOrderFulfillment() *OrderFulfillment {
	return &OrderFulfillment{
		offers: make(map[uint64]*domain.Offer),
	}
}

func (f *OrderFulfillment) CreateOffer(owner string) (domain.Offer, error) {
	if owner == "" {
		return domain.Offer{}, domain.ErrUnauthorized
	}

	f.mu.Lock()
	now := time.Now()
	offer := &domain.Offer{
		ID:        f.nextID,
		Owner:     owner,
		State:     domain.OfferStateOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.nextID++
	f.offers[offer.ID] = offer
	created := *offer
	f.mu.Unlock()

	log.Info().
		Str("event", "OfferCreated").
		Uint64("offer_id", created.ID).
		Str("owner", created.Owner).
		Msg("offer created")

	return created, nil
}

// FulfillOffer transitions Open -> Fulfilled. The owner cannot fulfill
// their own offer; any counterparty can.
func (f *OrderFulfillment) FulfillOffer(offerID uint64, fulfiller string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	offer, ok := f.offers[offerID]
	if !ok {
		return domain.ErrNotFound
	}
	if fulfiller == offer.Owner {
		return domain.ErrUnauthorized
	}
	if offer.State != domain.OfferStateOpen {
		return domain.ErrInvalidState
	}

	offer.State = domain.OfferStateFulfilled
	offer.Fulfiller = fulfiller
	offer.UpdatedAt = time.Now()

	log.Info().
		Str("event", "OfferFulfilled").
		Uint64("offer_id", offerID).
		Str("fulfiller", fulfiller).
		Msg("offer fulfilled")
	return nil
}

// CancelOffer transitions Open -> Cancelled. Owner only.
func (f *OrderFulfillment) CancelOffer(offerID uint64, caller string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	offer, ok := f.offers[offerID]
	if !ok {
		return domain.ErrNotFound
	}
	if caller != offer.Owner {
		return domain.ErrUnauthorized
	}
	if offer.State != domain.OfferStateOpen {
		return domain.ErrInvalidState
	}

	offer.State = domain.OfferStateCancelled
	offer.UpdatedAt = time.Now()

	log.Info().
		Str("event", "OfferCancelled").
		Uint64("offer_id", offerID).
		Msg("offer cancelled")
	return nil
}

func (f *OrderFulfillment) GetOffer(offerID uint64) (domain.Offer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	offer, ok := f.offers[offerID]
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}
	return *offer, nil
}
