package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/tiers"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// zeroAddress is the burn/mint party on transfer notifications.
const zeroAddress = "0x0000000000000000000000000000000000000000"

// getBalance returns the wallet's token balance, serving from the cache when
// fresh and falling back to a synchronous oracle call when stale. An oracle
// failure degrades to the zero balance (lowest tier) instead of failing the
// caller.
func (u *Usecase) getBalance(ctx context.Context, walletAddress string) decimal.Decimal {
	cached, err := u.state.GetCachedBalance(ctx, walletAddress)
	if err != nil {
		logger.WarnContext(ctx, "failed to read cached balance", slogx.Error(err), slogx.String("wallet", walletAddress))
	}
	if cached != nil {
		return *cached
	}

	balance, err := u.oracle.GetTokenBalance(ctx, walletAddress)
	if err != nil {
		logger.WarnContext(ctx, "balance oracle unavailable, treating wallet as lowest tier",
			slogx.Error(err),
			slogx.String("wallet", walletAddress),
		)
		return decimal.Zero
	}

	if err := u.state.SetCachedBalance(ctx, walletAddress, balance); err != nil {
		logger.WarnContext(ctx, "failed to cache balance", slogx.Error(err), slogx.String("wallet", walletAddress))
	}
	return balance
}

// resolveTier resolves the wallet's current policy tier from its balance.
func (u *Usecase) resolveTier(ctx context.Context, walletAddress string) tiers.Tier {
	return tiers.Resolve(u.getBalance(ctx, walletAddress))
}

// InvalidateTransfers marks both sides of every transfer pair stale. The
// cache is not refetched eagerly; the next admission check that needs a
// fresh balance repopulates it.
func (u *Usecase) InvalidateTransfers(ctx context.Context, transfers []entity.TransferNotification) error {
	wallets := make([]string, 0, len(transfers)*2)
	for _, transfer := range transfers {
		for _, raw := range []string{transfer.From, transfer.To} {
			wallet, err := NormalizeWalletAddress(raw)
			if err != nil || wallet == zeroAddress {
				// mint/burn transfers name the zero address as a party
				continue
			}
			wallets = append(wallets, wallet)
		}
	}
	wallets = lo.Uniq(wallets)
	if len(wallets) == 0 {
		return nil
	}

	if err := u.state.InvalidateBalances(ctx, wallets); err != nil {
		return errors.Wrap(err, "failed to invalidate balances")
	}
	logger.InfoContext(ctx, "invalidated cached balances after transfer notification", slogx.Int("wallets", len(wallets)))
	return nil
}
