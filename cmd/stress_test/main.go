package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/M-Marcel/marketplace-contract/internal/adapter/ledger"
	"github.com/M-Marcel/marketplace-contract/internal/core/service"
)

const (
	price         = 100
	initialStock  = 20
	totalRequests = 50
	queueSize     = 100
)

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx := context.Background()
	accountLedger := ledger.NewMemoryLedger()

	registry := service.NewItemRegistry(queueSize)
	settlement := service.NewSaleSettlement(registry, accountLedger, nil, "treasury", "operator", queueSize)
	defer func() {
		registry.Close()
		settlement.Close()
	}()

	// Drain the write-behind queues in background
	go func() {
		for range registry.ItemQueue() {
		}
	}()
	go func() {
		for range settlement.ReceiptQueue() {
		}
	}()

	item, err := registry.CreateItem("seller", "creator", price, initialStock, 2000, "ipfs://stress")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list item")
	}

	var successCount atomic.Int32
	var failCount atomic.Int32
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := settlement.BuyItemCopy(ctx, service.PurchaseRequest{
				RequestID: uuid.New().String(),
				Buyer:     fmt.Sprintf("buyer-%d", n),
				ItemID:    item.ID,
				Quantity:  1,
				Payment:   price,
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	final, _ := registry.GetItem(item.ID)
	sellerBal, _ := accountLedger.Balance(ctx, "seller")
	creatorBal, _ := accountLedger.Balance(ctx, "creator")
	treasuryBal, _ := accountLedger.Balance(ctx, "treasury")

	fmt.Printf("requests:   %d in %s\n", totalRequests, elapsed)
	fmt.Printf("successes:  %d (expected %d)\n", successCount.Load(), initialStock)
	fmt.Printf("rejections: %d\n", failCount.Load())
	fmt.Printf("remaining:  %d, total sold: %d, aggregate sold: %d\n", final.Quantity, final.TotalSold, registry.ItemsSold())
	fmt.Printf("balances:   seller=%d creator=%d treasury=%d (paid total %d)\n",
		sellerBal, creatorBal, treasuryBal, successCount.Load()*price)
}
