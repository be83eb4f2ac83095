package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
)

// MySQLAdapter journals catalog items and settled sales. The in-memory
// engine stays authoritative; rows here are the audit trail.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) SaveItem(ctx context.Context, item domain.Item) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO items (id, seller, royalty_receiver, price, quantity, initial_quantity, royalty_bps, metadata_uri, total_sold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = VALUES(quantity),
			total_sold = VALUES(total_sold),
			updated_at = VALUES(updated_at)`,
		item.ID, item.Seller, item.RoyaltyReceiver, item.Price, item.Quantity,
		item.InitialQuantity, item.RoyaltyBps, item.MetadataURI, item.TotalSold,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) RecordSale(ctx context.Context, receipt domain.SaleReceipt) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, item_id, buyer, seller, royalty_receiver, quantity, paid_amount, seller_amount, royalty_amount, service_fee_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, receipt.ItemID, receipt.Buyer, receipt.Seller, receipt.RoyaltyReceiver,
		receipt.Quantity, receipt.PaidAmount, receipt.SellerAmount, receipt.RoyaltyAmount,
		receipt.ServiceFeeAmount, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE items
		SET quantity = ?, total_sold = ?, updated_at = NOW()
		WHERE id = ?`,
		receipt.RemainingQuantity, receipt.TotalSold, receipt.ItemID,
	)
	if err != nil {
		return fmt.Errorf("update item snapshot: %w", err)
	}

	return tx.Commit()
}

// GetItemSnapshot reads the journaled item row, nil when absent.
func (m *MySQLAdapter) GetItemSnapshot(ctx context.Context, itemID uint64) (*domain.Item, error) {
	var item domain.Item
	err := m.db.QueryRowContext(ctx, `
		SELECT id, seller, royalty_receiver, price, quantity, initial_quantity, royalty_bps, metadata_uri, total_sold
		FROM items WHERE id = ?`, itemID,
	).Scan(&item.ID, &item.Seller, &item.RoyaltyReceiver, &item.Price, &item.Quantity,
		&item.InitialQuantity, &item.RoyaltyBps, &item.MetadataURI, &item.TotalSold)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}
