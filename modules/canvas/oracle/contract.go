package oracle

import (
	"context"

	"github.com/shopspring/decimal"
)

// Contract is the blockchain balance oracle. Calls may fail or time out;
// callers keep the previous cached value if present, else treat the wallet
// as the lowest tier.
type Contract interface {
	// GetTokenBalance returns the wallet's balance of the governed token,
	// in whole-token units.
	GetTokenBalance(ctx context.Context, walletAddress string) (decimal.Decimal, error)
}
