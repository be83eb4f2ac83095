package port

import "context"

// LedgerEntry credits an account with an amount in the smallest unit of
// the payment asset.
type LedgerEntry struct {
	Account string
	Amount  int64
}

type Ledger interface {
	// Disburse credits every entry or none of them
	Disburse(ctx context.Context, entries []LedgerEntry) error

	// Balance returns the current balance of an account, zero if unknown
	Balance(ctx context.Context, account string) (int64, error)
}
