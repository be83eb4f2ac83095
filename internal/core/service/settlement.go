package service

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
	"github.com/M-Marcel/marketplace-contract/internal/port"
)

// PurchaseRequest carries one buy-copy call. Price, royalty and URI
// fields are buyer-supplied claims: the settlement always recomputes the
// split from the stored item terms and never lets a claim override them.
type PurchaseRequest struct {
	RequestID        string // optional, enables idempotent retries
	Buyer            string
	ItemID           uint64
	Quantity         int64 // defaults to 1
	PriceClaim       int64
	RoyaltyBpsClaim  int64
	MetadataURIClaim string
	Payment          int64
}

// SaleSettlement validates payments, splits them between seller, royalty
// receiver and treasury, and depletes copies through the registry. A
// purchase is all-or-nothing: it runs under the registry's state lock, so
// readers never observe a half-applied sale.
type SaleSettlement struct {
	registry *ItemRegistry
	ledger   port.Ledger
	cache    port.CacheRepository // optional, idempotency only
	treasury string
	operator string

	feeMu         sync.RWMutex
	serviceFeeBps int64

	receiptQueue chan domain.SaleReceipt
}

func NewSaleSettlement(registry *ItemRegistry, ledger port.Ledger, cache port.CacheRepository, treasury, operator string, queueSize int) *SaleSettlement {
	return &SaleSettlement{
		registry:      registry,
		ledger:        ledger,
		cache:         cache,
		treasury:      treasury,
		operator:      operator,
		serviceFeeBps: domain.DefaultServiceFeeBps,
		receiptQueue:  make(chan domain.SaleReceipt, queueSize),
	}
}

// BuyItemCopy settles the purchase of req.Quantity copies against one
// exact payment. Payment must equal price*quantity; overpayment and
// underpayment are both rejected outright.
func (s *SaleSettlement) BuyItemCopy(ctx context.Context, req PurchaseRequest) (domain.SaleReceipt, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return domain.SaleReceipt{}, domain.ErrInvalidQuantity
	}

	if s.cache != nil && req.RequestID != "" {
		key := fmt.Sprintf("purchase:%s", req.RequestID)
		ok, err := s.cache.SetIdempotency(ctx, key)
		if err != nil {
			return domain.SaleReceipt{}, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return domain.SaleReceipt{}, domain.ErrDuplicateRequest
		}
	}

	receipt, err := s.settle(ctx, req, quantity)
	if err != nil {
		return domain.SaleReceipt{}, err
	}

	s.receiptQueue <- receipt

	log.Info().
		Str("event", "ItemCopySold").
		Str("receipt_id", receipt.ID).
		Uint64("item_id", receipt.ItemID).
		Str("buyer", receipt.Buyer).
		Int64("quantity", receipt.Quantity).
		Int64("paid", receipt.PaidAmount).
		Int64("seller_amount", receipt.SellerAmount).
		Int64("royalty_amount", receipt.RoyaltyAmount).
		Int64("service_fee_amount", receipt.ServiceFeeAmount).
		Msg("item copy sold")

	return receipt, nil
}

func (s *SaleSettlement) settle(ctx context.Context, req PurchaseRequest, quantity int64) (domain.SaleReceipt, error) {
	r := s.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.itemLocked(req.ItemID)
	if err != nil {
		return domain.SaleReceipt{}, err
	}
	if item.Quantity < quantity {
		return domain.SaleReceipt{}, domain.ErrSoldOut
	}

	expected, ok := mulInt64(item.Price, quantity)
	if !ok || req.Payment != expected {
		return domain.SaleReceipt{}, domain.ErrIncorrectPayment
	}

	if req.RoyaltyBpsClaim != 0 && req.RoyaltyBpsClaim != item.RoyaltyBps {
		log.Warn().
			Uint64("item_id", item.ID).
			Int64("claimed_bps", req.RoyaltyBpsClaim).
			Int64("stored_bps", item.RoyaltyBps).
			Msg("royalty claim ignored, stored terms apply")
	}
	if req.MetadataURIClaim != "" && req.MetadataURIClaim != item.MetadataURI {
		log.Warn().
			Uint64("item_id", item.ID).
			Msg("metadata uri claim ignored, stored terms apply")
	}

	paid := req.Payment
	royaltyAmount := bpsShare(paid, item.RoyaltyBps)
	serviceFeeAmount := bpsShare(paid, s.ServiceFee())
	if royaltyAmount+serviceFeeAmount > paid {
		return domain.SaleReceipt{}, domain.ErrFeeOverflow
	}
	sellerAmount := paid - royaltyAmount - serviceFeeAmount

	entries := make([]port.LedgerEntry, 0, 3)
	if sellerAmount > 0 {
		entries = append(entries, port.LedgerEntry{Account: item.Seller, Amount: sellerAmount})
	}
	if royaltyAmount > 0 {
		entries = append(entries, port.LedgerEntry{Account: item.RoyaltyReceiver, Amount: royaltyAmount})
	}
	if serviceFeeAmount > 0 {
		entries = append(entries, port.LedgerEntry{Account: s.treasury, Amount: serviceFeeAmount})
	}
	if err := s.ledger.Disburse(ctx, entries); err != nil {
		return domain.SaleReceipt{}, fmt.Errorf("disbursement failed: %w", err)
	}

	if err := r.depleteLocked(item, quantity); err != nil {
		// Unreachable: quantity was checked above under the same lock.
		return domain.SaleReceipt{}, err
	}

	return domain.SaleReceipt{
		ID:                uuid.New().String(),
		ItemID:            item.ID,
		Buyer:             req.Buyer,
		Seller:            item.Seller,
		RoyaltyReceiver:   item.RoyaltyReceiver,
		Quantity:          quantity,
		PaidAmount:        paid,
		SellerAmount:      sellerAmount,
		RoyaltyAmount:     royaltyAmount,
		ServiceFeeAmount:  serviceFeeAmount,
		RemainingQuantity: item.Quantity,
		TotalSold:         item.TotalSold,
		CreatedAt:         time.Now(),
	}, nil
}

// SetServiceFee updates the platform fee for all subsequent purchases.
// Completed sales are never recomputed. Operator capability required.
func (s *SaleSettlement) SetServiceFee(caller string, bps int64) error {
	if caller != s.operator {
		return domain.ErrUnauthorized
	}
	if bps < 0 || bps > domain.BasisPointsDenominator {
		return domain.ErrInvalidFee
	}

	s.feeMu.Lock()
	s.serviceFeeBps = bps
	s.feeMu.Unlock()

	log.Info().
		Str("event", "ServiceFeeUpdated").
		Int64("service_fee_bps", bps).
		Msg("service fee updated")
	return nil
}

// ServiceFee returns the current platform fee in basis points.
func (s *SaleSettlement) ServiceFee() int64 {
	s.feeMu.RLock()
	defer s.feeMu.RUnlock()
	return s.serviceFeeBps
}

// ReceiptQueue exposes settled sales for write-behind persistence.
func (s *SaleSettlement) ReceiptQueue() <-chan domain.SaleReceipt {
	return s.receiptQueue
}

func (s *SaleSettlement) Close() {
	close(s.receiptQueue)
}

// bpsShare is floor(amount*bps/10000) with a 128-bit intermediate so the
// product stays exact over the full int64 amount range.
func bpsShare(amount, bps int64) int64 {
	hi, lo := bits.Mul64(uint64(amount), uint64(bps))
	q, _ := bits.Div64(hi, lo, domain.BasisPointsDenominator)
	return int64(q)
}

func mulInt64(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}
