package domain

import "time"

// SaleReceipt records one settled purchase: who paid what and how the
// payment was split between seller, royalty receiver and treasury.
// SellerAmount + RoyaltyAmount + ServiceFeeAmount always equals PaidAmount.
type SaleReceipt struct {
	ID                string
	ItemID            uint64
	Buyer             string
	Seller            string
	RoyaltyReceiver   string
	Quantity          int64
	PaidAmount        int64
	SellerAmount      int64
	RoyaltyAmount     int64
	ServiceFeeAmount  int64
	RemainingQuantity int64
	TotalSold         int64
	CreatedAt         time.Time
}
