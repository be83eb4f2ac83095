package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/M-Marcel/marketplace-contract/config"
	"github.com/M-Marcel/marketplace-contract/internal/adapter/handler"
	"github.com/M-Marcel/marketplace-contract/internal/adapter/ledger"
	"github.com/M-Marcel/marketplace-contract/internal/adapter/storage"
	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
	"github.com/M-Marcel/marketplace-contract/internal/core/service"
	"github.com/M-Marcel/marketplace-contract/internal/port"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mysql")
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mysql")
	}
	log.Info().Msg("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	log.Info().Msg("connected to redis")

	// Initialize adapters
	redisAdapter := storage.NewRedisAdapter(rdb)
	mysqlAdapter := storage.NewMySQLAdapter(db)
	accountLedger := ledger.NewMemoryLedger()

	// Initialize engine
	registry := service.NewItemRegistry(cfg.QueueSize)
	settlement := service.NewSaleSettlement(registry, accountLedger, redisAdapter,
		cfg.TreasuryAccount, cfg.OperatorAccount, cfg.QueueSize)
	fulfillment := service.NewOrderFulfillment()

	// Start write-behind workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			receiptWorkerLoop(id, settlement.ReceiptQueue(), mysqlAdapter, redisAdapter)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		itemWorkerLoop(registry.ItemQueue(), mysqlAdapter, redisAdapter)
	}()
	log.Info().Int("workers", cfg.WorkerCount).Msg("started write-behind workers")

	// Initialize HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	httpHandler := handler.NewHTTPHandler(registry, settlement, fulfillment)
	httpHandler.Register(router)

	httpServer := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPPort).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info().Msg("HTTP server stopped")

	// Close queues and wait for workers to drain
	registry.Close()
	settlement.Close()
	wg.Wait()
	log.Info().Msg("workers stopped")

	rdb.Close()
	db.Close()
	log.Info().Msg("connections closed")
}

func receiptWorkerLoop(id int, queue <-chan domain.SaleReceipt, db port.DatabaseRepository, cache port.CacheRepository) {
	for receipt := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := db.RecordSale(ctx, receipt); err != nil {
			log.Error().Err(err).Int("worker", id).Str("receipt_id", receipt.ID).Msg("failed to journal sale")
		}
		if err := cache.SetStock(ctx, receipt.ItemID, receipt.RemainingQuantity); err != nil {
			log.Error().Err(err).Int("worker", id).Uint64("item_id", receipt.ItemID).Msg("failed to refresh stock mirror")
		}

		cancel()
	}
}

func itemWorkerLoop(queue <-chan domain.Item, db port.DatabaseRepository, cache port.CacheRepository) {
	for item := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := db.SaveItem(ctx, item); err != nil {
			log.Error().Err(err).Uint64("item_id", item.ID).Msg("failed to journal item")
		}
		if err := cache.SetStock(ctx, item.ID, item.Quantity); err != nil {
			log.Error().Err(err).Uint64("item_id", item.ID).Msg("failed to seed stock mirror")
		}

		cancel()
	}
}
