package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

func (r *Repository) GetLastPlacement(ctx context.Context, walletAddress string) (time.Time, error) {
	r.walletMu.RLock()
	defer r.walletMu.RUnlock()

	return r.lastPlacement[walletAddress], nil
}

func (r *Repository) SetLastPlacement(ctx context.Context, walletAddress string, at time.Time) error {
	r.walletMu.Lock()
	defer r.walletMu.Unlock()

	r.lastPlacement[walletAddress] = at
	return nil
}

func (r *Repository) GetCachedBalance(ctx context.Context, walletAddress string) (*decimal.Decimal, error) {
	r.walletMu.RLock()
	defer r.walletMu.RUnlock()

	balance, ok := r.balances[walletAddress]
	if !ok || balance == nil {
		return nil, nil
	}
	copied := *balance
	return &copied, nil
}

func (r *Repository) SetCachedBalance(ctx context.Context, walletAddress string, balance decimal.Decimal) error {
	r.walletMu.Lock()
	defer r.walletMu.Unlock()

	r.balances[walletAddress] = &balance
	return nil
}

func (r *Repository) InvalidateBalances(ctx context.Context, walletAddresses []string) error {
	r.walletMu.Lock()
	defer r.walletMu.Unlock()

	// mark stale instead of deleting so a later refetch repopulates lazily
	for _, wallet := range walletAddresses {
		r.balances[wallet] = nil
	}
	return nil
}
