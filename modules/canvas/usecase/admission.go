package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/tiers"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
)

// admit evaluates a placement request against the ban set, the wallet's
// cooldown and the target cell's protection, in that order. The ban check
// runs before any canvas read. No admission outcome mutates state; the
// cooldown slot is only consumed after the canvas write succeeds.
func (u *Usecase) admit(ctx context.Context, walletAddress string, x, y int) (tiers.Tier, error) {
	banned, err := u.state.IsBanned(ctx, walletAddress)
	if err != nil {
		return tiers.Tier{}, errors.Wrap(err, "failed to check ban set")
	}
	if banned {
		return tiers.Tier{}, errors.Wrapf(errs.Forbidden, "wallet %s is banned", walletAddress)
	}

	tier := u.resolveTier(ctx, walletAddress)

	lastPlacement, err := u.state.GetLastPlacement(ctx, walletAddress)
	if err != nil {
		return tiers.Tier{}, errors.Wrap(err, "failed to read last placement")
	}
	if !lastPlacement.IsZero() {
		elapsed := u.now().Sub(lastPlacement)
		if elapsed < tier.Cooldown {
			remaining := tier.Cooldown - elapsed
			return tiers.Tier{}, errs.WithPublicMessage(
				errors.Wrapf(errs.RateLimited, "cooldown not elapsed, %s remaining", remaining.Round(time.Second)),
				fmt.Sprintf("wait %.0f seconds before placing again", remaining.Seconds()),
			)
		}
	}

	existing, err := u.state.GetPixel(ctx, x, y)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return tiers.Tier{}, errors.Wrap(err, "failed to read target pixel")
	}
	if existing != nil && !existing.IsVoid && existing.WalletAddress != walletAddress {
		// The owner's protection is judged by their current tier, not the
		// tier at placement time. The balance lookup may be briefly stale
		// after a transfer; that staleness is tolerated.
		ownerTier := u.resolveTier(ctx, existing.WalletAddress)
		age := u.now().Sub(existing.PlacedAt)
		if ownerTier.Protection > 0 && age < ownerTier.Protection && tier.Level < ownerTier.Level {
			logger.DebugContext(ctx, "placement rejected by protection window",
				slogx.String("wallet", walletAddress),
				slogx.String("owner", existing.WalletAddress),
				slogx.String("ownerTier", ownerTier.Name),
				slogx.Duration("age", age),
			)
			return tiers.Tier{}, errs.WithPublicMessage(
				errors.Wrapf(errs.Protected, "pixel (%d, %d) is protected by a %s tier wallet", x, y, ownerTier.Name),
				fmt.Sprintf("this pixel is protected by a %s tier holder", ownerTier.Name),
			)
		}
	}

	return tier, nil
}
