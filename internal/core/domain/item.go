package domain

import "time"

const (
	// BasisPointsDenominator is the percentage denominator: 10000 bps = 100%.
	BasisPointsDenominator = 10000

	// DefaultServiceFeeBps is the platform fee on a freshly initialized engine (2%).
	DefaultServiceFeeBps = 200
)

// Item is a listing with a depletable number of sellable copies.
// Price is denominated in the smallest integer unit of the payment asset.
type Item struct {
	ID              uint64
	Seller          string
	RoyaltyReceiver string
	Price           int64
	Quantity        int64 // remaining sellable copies
	InitialQuantity int64
	RoyaltyBps      int64
	MetadataURI     string
	TotalSold       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
