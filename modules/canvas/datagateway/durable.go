package datagateway

import (
	"context"

	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

// DurableDataGateway is the eventually-consistent system of record. All
// writes are upserts keyed by the record's natural identifier (coordinate
// pair for pixels, wallet address for wallets and bans), so redelivered
// queue jobs re-apply instead of duplicating. It is only ever written by the
// queue processor, never read on the interactive path.
type DurableDataGateway interface {
	UpsertPixels(ctx context.Context, pixels []entity.Pixel) error
	UpsertWallets(ctx context.Context, wallets []entity.WalletProfile) error
	UpsertBans(ctx context.Context, bans []entity.BanRecord) error
}
