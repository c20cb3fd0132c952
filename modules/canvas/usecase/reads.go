package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/tiers"
	"github.com/shopspring/decimal"
)

// CanvasSnapshot is the full state of the grid for a fresh viewer.
type CanvasSnapshot struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Pixels []entity.Pixel `json:"pixels"`
}

func (u *Usecase) GetCanvas(ctx context.Context) (CanvasSnapshot, error) {
	pixels, err := u.state.GetCanvas(ctx)
	if err != nil {
		return CanvasSnapshot{}, errors.Wrap(err, "failed to read canvas")
	}
	return CanvasSnapshot{
		Width:  u.grid.Width,
		Height: u.grid.Height,
		Pixels: pixels,
	}, nil
}

func (u *Usecase) GetPixel(ctx context.Context, x, y int) (entity.Pixel, error) {
	if err := u.validateCoord(x, y); err != nil {
		return entity.Pixel{}, errors.WithStack(err)
	}
	pixel, err := u.state.GetPixel(ctx, x, y)
	if err != nil {
		return entity.Pixel{}, errors.WithStack(err)
	}
	return *pixel, nil
}

func (u *Usecase) GetRecentActivity(ctx context.Context, since time.Time, limit int) ([]entity.Pixel, error) {
	if since.IsZero() {
		since = u.now().Add(-leaderboardWindow)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := u.state.GetHistorySince(ctx, since, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read history")
	}
	return entries, nil
}

func (u *Usecase) GetLeaderboard(ctx context.Context, since time.Time, limit int) ([]entity.TopPlacer, error) {
	if since.IsZero() {
		since = u.now().Add(-leaderboardWindow)
	}
	if limit <= 0 || limit > 100 {
		limit = leaderboardSize
	}
	placers, err := u.state.GetTopPlacers(ctx, since, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank placers")
	}
	return placers, nil
}

// WalletStatus is the wallet-facing view of its own policy state.
type WalletStatus struct {
	WalletAddress     string          `json:"wallet_address"`
	Balance           decimal.Decimal `json:"balance"`
	Tier              string          `json:"tier"`
	Cooldown          time.Duration   `json:"-"`
	CooldownRemaining time.Duration   `json:"-"`
	Protection        time.Duration   `json:"-"`
	Banned            bool            `json:"banned"`
	LastPlacement     time.Time       `json:"last_placement"`
}

func (u *Usecase) GetWalletStatus(ctx context.Context, walletAddress string) (WalletStatus, error) {
	wallet, err := NormalizeWalletAddress(walletAddress)
	if err != nil {
		return WalletStatus{}, errors.WithStack(err)
	}

	banned, err := u.state.IsBanned(ctx, wallet)
	if err != nil {
		return WalletStatus{}, errors.Wrap(err, "failed to check ban set")
	}

	balance := u.getBalance(ctx, wallet)
	tier := tiers.Resolve(balance)

	lastPlacement, err := u.state.GetLastPlacement(ctx, wallet)
	if err != nil {
		return WalletStatus{}, errors.Wrap(err, "failed to read last placement")
	}

	var remaining time.Duration
	if !lastPlacement.IsZero() {
		if elapsed := u.now().Sub(lastPlacement); elapsed < tier.Cooldown {
			remaining = tier.Cooldown - elapsed
		}
	}

	return WalletStatus{
		WalletAddress:     wallet,
		Balance:           balance,
		Tier:              tier.Name,
		Cooldown:          tier.Cooldown,
		CooldownRemaining: remaining,
		Protection:        tier.Protection,
		Banned:            banned,
		LastPlacement:     lastPlacement,
	}, nil
}
