package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/M-Marcel/marketplace-contract/internal/port"
)

// MemoryLedger keeps account balances in process. Disburse validates the
// whole batch before touching any balance, so a rejected entry leaves the
// ledger untouched.
type MemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]int64)}
}

func (l *MemoryLedger) Disburse(ctx context.Context, entries []port.LedgerEntry) error {
	for _, e := range entries {
		if e.Account == "" {
			return fmt.Errorf("ledger entry with empty account")
		}
		if e.Amount < 0 {
			return fmt.Errorf("ledger entry with negative amount %d for %s", e.Amount, e.Account)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		l.balances[e.Account] += e.Amount
	}
	return nil
}

func (l *MemoryLedger) Balance(ctx context.Context, account string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account], nil
}
