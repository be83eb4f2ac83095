package domain

import "time"

type OfferState string

const (
	OfferStateOpen      OfferState = "open"
	OfferStateFulfilled OfferState = "fulfilled"
	OfferStateCancelled OfferState = "cancelled"
)

// Offer is a fulfillment request. It transitions exactly once from Open
// to a terminal state and is immutable afterwards.
type Offer struct {
	ID        uint64
	Owner     string
	State     OfferState
	Fulfiller string
	CreatedAt time.Time
	UpdatedAt time.Time
}
