package usecase

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/fanout"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
)

// PlacePixel runs the placement pipeline: validate, admit, write the canvas,
// append history, enqueue durable writes and broadcast. The canvas write is
// the point of no return; everything after it is best-effort and never rolls
// back or surfaces to the placing client.
func (u *Usecase) PlacePixel(ctx context.Context, walletAddress string, x, y int, color string) (entity.Pixel, error) {
	wallet, err := NormalizeWalletAddress(walletAddress)
	if err != nil {
		return entity.Pixel{}, errors.WithStack(err)
	}
	normalizedColor, err := normalizeColor(color)
	if err != nil {
		return entity.Pixel{}, errors.WithStack(err)
	}
	if err := u.validateCoord(x, y); err != nil {
		return entity.Pixel{}, errors.WithStack(err)
	}

	if _, err := u.admit(ctx, wallet, x, y); err != nil {
		return entity.Pixel{}, errors.WithStack(err)
	}

	now := u.now()
	pixel := entity.Pixel{
		X:             x,
		Y:             y,
		Color:         normalizedColor,
		WalletAddress: wallet,
		PlacedAt:      now,
	}

	if err := u.state.SetPixel(ctx, pixel); err != nil {
		// a failed write must not consume the wallet's cooldown slot
		return entity.Pixel{}, errors.Wrap(err, "failed to write canvas")
	}
	if err := u.state.SetLastPlacement(ctx, wallet, now); err != nil {
		logger.ErrorContext(ctx, "failed to record last placement", slogx.Error(err), slogx.String("wallet", wallet))
	}

	if err := u.state.AppendHistory(ctx, pixel); err != nil {
		logger.ErrorContext(ctx, "failed to append placement history", slogx.Error(err), slogx.String("wallet", wallet))
	}

	u.enqueue(ctx, entity.CollectionPixels, pixel)
	u.enqueue(ctx, entity.CollectionWallets, entity.WalletProfile{
		WalletAddress: wallet,
		LastActive:    now,
	})

	u.publishPlacement(ctx, pixel)

	return pixel, nil
}

// enqueue appends a durable-write job. Failures are logged and dropped: the
// durable mirror may lag, the canvas must not.
func (u *Usecase) enqueue(ctx context.Context, collection entity.Collection, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorContext(ctx, "failed to marshal durable-write job", slogx.Error(err), slogx.Stringer("collection", collection))
		return
	}
	job := entity.QueueJob{
		Collection: collection,
		Payload:    raw,
		EnqueuedAt: u.now(),
	}
	if err := u.state.PushJob(ctx, job); err != nil {
		logger.ErrorContext(ctx, "failed to enqueue durable-write job", slogx.Error(err), slogx.Stringer("collection", collection))
	}
}

// publishPlacement broadcasts a pixel-placed event with a best-effort
// leaderboard snapshot. Publish never blocks the placing client.
func (u *Usecase) publishPlacement(ctx context.Context, pixel entity.Pixel) {
	topUsers, err := u.state.GetTopPlacers(ctx, u.now().Add(-leaderboardWindow), leaderboardSize)
	if err != nil {
		logger.WarnContext(ctx, "failed to compute leaderboard snapshot for broadcast", slogx.Error(err))
		topUsers = nil
	}
	u.fanout.Publish(ctx, fanout.Event{
		Name: fanout.EventPixelPlaced,
		Payload: entity.PixelPlacedEvent{
			Pixel:    pixel,
			TopUsers: topUsers,
		},
	})
}
