package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

const upsertPixelSQL = `
INSERT INTO canvas_pixels (x, y, color, wallet_address, placed_at, is_void)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (x, y) DO UPDATE SET
	color = EXCLUDED.color,
	wallet_address = EXCLUDED.wallet_address,
	placed_at = EXCLUDED.placed_at,
	is_void = EXCLUDED.is_void
`

const upsertWalletSQL = `
INSERT INTO canvas_wallets (wallet_address, token_balance, last_active)
VALUES ($1, $2, $3)
ON CONFLICT (wallet_address) DO UPDATE SET
	token_balance = EXCLUDED.token_balance,
	last_active = EXCLUDED.last_active
`

const upsertBanSQL = `
INSERT INTO canvas_bans (wallet_address, banned_at, banned_by, reason, active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (wallet_address) DO UPDATE SET
	banned_at = EXCLUDED.banned_at,
	banned_by = EXCLUDED.banned_by,
	reason = EXCLUDED.reason,
	active = EXCLUDED.active
`

func (r *Repository) UpsertPixels(ctx context.Context, pixels []entity.Pixel) error {
	if len(pixels) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pixel := range pixels {
		batch.Queue(upsertPixelSQL, pixel.X, pixel.Y, pixel.Color, pixel.WalletAddress, pixel.PlacedAt, pixel.IsVoid)
	}
	return errors.Wrap(r.sendBatch(ctx, batch), "failed to upsert pixels")
}

func (r *Repository) UpsertWallets(ctx context.Context, wallets []entity.WalletProfile) error {
	if len(wallets) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, wallet := range wallets {
		batch.Queue(upsertWalletSQL, wallet.WalletAddress, wallet.TokenBalance, wallet.LastActive)
	}
	return errors.Wrap(r.sendBatch(ctx, batch), "failed to upsert wallets")
}

func (r *Repository) UpsertBans(ctx context.Context, bans []entity.BanRecord) error {
	if len(bans) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ban := range bans {
		batch.Queue(upsertBanSQL, ban.WalletAddress, ban.BannedAt, ban.BannedBy, ban.Reason, ban.Active)
	}
	return errors.Wrap(r.sendBatch(ctx, batch), "failed to upsert bans")
}

func (r *Repository) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var errList []error
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			errList = append(errList, errors.Wrapf(err, "statement %d", i))
		}
	}
	return errors.Join(errList...)
}
