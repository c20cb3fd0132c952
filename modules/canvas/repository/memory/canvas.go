package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

func (r *Repository) GetPixel(ctx context.Context, x, y int) (*entity.Pixel, error) {
	r.canvasMu.RLock()
	defer r.canvasMu.RUnlock()

	pixel, ok := r.pixels[entity.Coord{X: x, Y: y}]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &pixel, nil
}

func (r *Repository) GetCanvas(ctx context.Context) ([]entity.Pixel, error) {
	r.canvasMu.RLock()
	defer r.canvasMu.RUnlock()

	pixels := make([]entity.Pixel, 0, len(r.pixels))
	for _, pixel := range r.pixels {
		pixels = append(pixels, pixel)
	}
	return pixels, nil
}

func (r *Repository) SetPixel(ctx context.Context, pixel entity.Pixel) error {
	r.canvasMu.Lock()
	defer r.canvasMu.Unlock()

	r.pixels[pixel.Coord()] = pixel
	return nil
}

func (r *Repository) DeletePixel(ctx context.Context, x, y int) error {
	r.canvasMu.Lock()
	defer r.canvasMu.Unlock()

	delete(r.pixels, entity.Coord{X: x, Y: y})
	return nil
}

func (r *Repository) AppendHistory(ctx context.Context, pixel entity.Pixel) error {
	r.historyMu.Lock()
	defer r.historyMu.Unlock()

	r.history = append(r.history, pixel)
	return nil
}

func (r *Repository) GetHistorySince(ctx context.Context, since time.Time, limit int) ([]entity.Pixel, error) {
	r.historyMu.RLock()
	defer r.historyMu.RUnlock()

	// history is appended in arrival order; walk backwards for newest first
	out := make([]entity.Pixel, 0, limit)
	for i := len(r.history) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.history[i].PlacedAt.Before(since) {
			continue
		}
		out = append(out, r.history[i])
	}
	return out, nil
}

func (r *Repository) GetTopPlacers(ctx context.Context, since time.Time, limit int) ([]entity.TopPlacer, error) {
	r.historyMu.RLock()
	counts := make(map[string]int)
	for _, pixel := range r.history {
		if pixel.IsVoid || pixel.PlacedAt.Before(since) {
			continue
		}
		counts[pixel.WalletAddress]++
	}
	r.historyMu.RUnlock()

	placers := make([]entity.TopPlacer, 0, len(counts))
	for wallet, count := range counts {
		placers = append(placers, entity.TopPlacer{WalletAddress: wallet, Count: count})
	}
	sort.Slice(placers, func(i, j int) bool {
		if placers[i].Count != placers[j].Count {
			return placers[i].Count > placers[j].Count
		}
		return placers[i].WalletAddress < placers[j].WalletAddress
	})
	if limit > 0 && len(placers) > limit {
		placers = placers[:limit]
	}
	return placers, nil
}
