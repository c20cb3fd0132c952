package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/fanout"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
)

// BanWallet adds the wallet to the active ban set and queues the ban record
// for persistence. Admission consults only the ban set, never the durable
// store.
func (u *Usecase) BanWallet(ctx context.Context, bannedBy, walletAddress, reason string) (entity.BanRecord, error) {
	wallet, err := NormalizeWalletAddress(walletAddress)
	if err != nil {
		return entity.BanRecord{}, errors.WithStack(err)
	}

	if err := u.state.AddBan(ctx, wallet); err != nil {
		return entity.BanRecord{}, errors.Wrap(err, "failed to add ban")
	}

	record := entity.BanRecord{
		WalletAddress: wallet,
		BannedAt:      u.now(),
		BannedBy:      bannedBy,
		Reason:        reason,
		Active:        true,
	}
	u.enqueue(ctx, entity.CollectionBans, record)

	logger.InfoContext(ctx, "banned wallet", slogx.String("wallet", wallet), slogx.String("bannedBy", bannedBy))
	return record, nil
}

// UnbanWallet removes the wallet from the active ban set and queues the
// deactivated record.
func (u *Usecase) UnbanWallet(ctx context.Context, bannedBy, walletAddress string) error {
	wallet, err := NormalizeWalletAddress(walletAddress)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := u.state.RemoveBan(ctx, wallet); err != nil {
		return errors.Wrap(err, "failed to remove ban")
	}

	u.enqueue(ctx, entity.CollectionBans, entity.BanRecord{
		WalletAddress: wallet,
		BannedAt:      u.now(),
		BannedBy:      bannedBy,
		Active:        false,
	})

	logger.InfoContext(ctx, "unbanned wallet", slogx.String("wallet", wallet), slogx.String("bannedBy", bannedBy))
	return nil
}

// ClearRegion voids every cell in the given rectangle, inclusive of both
// corners, and broadcasts the cleared bounds.
func (u *Usecase) ClearRegion(ctx context.Context, startX, startY, endX, endY int) (int, error) {
	if startX > endX || startY > endY {
		return 0, errors.Wrap(errs.InvalidArgument, "region corners are inverted")
	}
	if err := u.validateCoord(startX, startY); err != nil {
		return 0, errors.WithStack(err)
	}
	if err := u.validateCoord(endX, endY); err != nil {
		return 0, errors.WithStack(err)
	}

	var coords []entity.Coord
	for x := startX; x <= endX; x++ {
		for y := startY; y <= endY; y++ {
			coords = append(coords, entity.Coord{X: x, Y: y})
		}
	}
	cleared := u.clear(ctx, coords)

	u.fanout.Publish(ctx, fanout.Event{
		Name: fanout.EventPixelsCleared,
		Payload: entity.PixelsClearedEvent{
			StartX: &startX,
			StartY: &startY,
			EndX:   &endX,
			EndY:   &endY,
		},
	})
	return cleared, nil
}

// ClearPixels voids an explicit list of cells and broadcasts the list.
func (u *Usecase) ClearPixels(ctx context.Context, coords []entity.Coord) (int, error) {
	if len(coords) == 0 {
		return 0, errors.Wrap(errs.InvalidArgument, "no pixels to clear")
	}
	for _, coord := range coords {
		if err := u.validateCoord(coord.X, coord.Y); err != nil {
			return 0, errors.WithStack(err)
		}
	}

	cleared := u.clear(ctx, coords)

	u.fanout.Publish(ctx, fanout.Event{
		Name: fanout.EventPixelsCleared,
		Payload: entity.PixelsClearedEvent{
			Pixels: coords,
		},
	})
	return cleared, nil
}

// clear voids occupied cells, appends void history entries and queues the
// void pixels for the durable mirror. Empty cells are skipped.
func (u *Usecase) clear(ctx context.Context, coords []entity.Coord) int {
	now := u.now()
	var cleared int
	for _, coord := range coords {
		existing, err := u.state.GetPixel(ctx, coord.X, coord.Y)
		if err != nil {
			if !errors.Is(err, errs.NotFound) {
				logger.ErrorContext(ctx, "failed to read pixel during clear", slogx.Error(err), slogx.Stringer("coord", coord))
			}
			continue
		}
		if existing.IsVoid {
			continue
		}

		if err := u.state.DeletePixel(ctx, coord.X, coord.Y); err != nil {
			logger.ErrorContext(ctx, "failed to delete pixel during clear", slogx.Error(err), slogx.Stringer("coord", coord))
			continue
		}
		cleared++

		voidPixel := entity.Pixel{
			X:        coord.X,
			Y:        coord.Y,
			Color:    existing.Color,
			PlacedAt: now,
			IsVoid:   true,
		}
		if err := u.state.AppendHistory(ctx, voidPixel); err != nil {
			logger.ErrorContext(ctx, "failed to append clear history", slogx.Error(err), slogx.Stringer("coord", coord))
		}
		u.enqueue(ctx, entity.CollectionPixels, voidPixel)
	}
	return cleared
}
