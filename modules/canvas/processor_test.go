package canvas

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/config"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDurable struct {
	mu      sync.Mutex
	pixels  map[entity.Coord]entity.Pixel
	wallets map[string]entity.WalletProfile
	bans    map[string]entity.BanRecord
	err     error
}

func newFakeDurable() *fakeDurable {
	return &fakeDurable{
		pixels:  make(map[entity.Coord]entity.Pixel),
		wallets: make(map[string]entity.WalletProfile),
		bans:    make(map[string]entity.BanRecord),
	}
}

func (f *fakeDurable) UpsertPixels(_ context.Context, pixels []entity.Pixel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, pixel := range pixels {
		f.pixels[entity.Coord{X: pixel.X, Y: pixel.Y}] = pixel
	}
	return nil
}

func (f *fakeDurable) UpsertWallets(_ context.Context, wallets []entity.WalletProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, wallet := range wallets {
		f.wallets[wallet.WalletAddress] = wallet
	}
	return nil
}

func (f *fakeDurable) UpsertBans(_ context.Context, bans []entity.BanRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, ban := range bans {
		f.bans[ban.WalletAddress] = ban
	}
	return nil
}

func pushPixelJob(t *testing.T, repo *memory.Repository, pixel entity.Pixel) {
	t.Helper()
	payload, err := json.Marshal(pixel)
	require.NoError(t, err)
	require.NoError(t, repo.PushJob(context.Background(), entity.QueueJob{
		Collection: entity.CollectionPixels,
		Payload:    payload,
		EnqueuedAt: pixel.PlacedAt,
	}))
}

func TestDrain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("applies batch by natural key", func(t *testing.T) {
		t.Parallel()
		repo := memory.NewRepository()
		durable := newFakeDurable()
		processor := NewProcessor(repo, durable, config.Drain{})

		placedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		pushPixelJob(t, repo, entity.Pixel{X: 1, Y: 1, Color: "#ff0000", WalletAddress: "0xaa", PlacedAt: placedAt})
		pushPixelJob(t, repo, entity.Pixel{X: 1, Y: 1, Color: "#00ff00", WalletAddress: "0xbb", PlacedAt: placedAt.Add(time.Second)})

		processed, err := processor.Drain(ctx, entity.CollectionPixels, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, processed)

		// both jobs touched the same cell, the later one wins
		require.Len(t, durable.pixels, 1)
		assert.Equal(t, "#00ff00", durable.pixels[entity.Coord{X: 1, Y: 1}].Color)

		remaining, err := repo.QueueLength(ctx, entity.CollectionPixels)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
	})

	t.Run("redelivery is idempotent", func(t *testing.T) {
		t.Parallel()
		repo := memory.NewRepository()
		durable := newFakeDurable()
		processor := NewProcessor(repo, durable, config.Drain{})

		pixel := entity.Pixel{X: 2, Y: 3, Color: "#ff0000", WalletAddress: "0xaa", PlacedAt: time.Now()}
		pushPixelJob(t, repo, pixel)
		_, err := processor.Drain(ctx, entity.CollectionPixels, 10)
		require.NoError(t, err)

		pushPixelJob(t, repo, pixel)
		processed, err := processor.Drain(ctx, entity.CollectionPixels, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
		assert.Len(t, durable.pixels, 1)
	})

	t.Run("held lease makes drain a no-op", func(t *testing.T) {
		t.Parallel()
		repo := memory.NewRepository()
		durable := newFakeDurable()
		processor := NewProcessor(repo, durable, config.Drain{LeaseTTL: time.Minute})

		pushPixelJob(t, repo, entity.Pixel{X: 0, Y: 0, Color: "#ff0000", WalletAddress: "0xaa", PlacedAt: time.Now()})

		acquired, err := repo.AcquireLease(ctx, "drain:pixels", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		processed, err := processor.Drain(ctx, entity.CollectionPixels, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, processed)

		queued, err := repo.QueueLength(ctx, entity.CollectionPixels)
		require.NoError(t, err)
		assert.Equal(t, 1, queued, "jobs stay queued while the lease is held")

		// after release the same batch drains normally
		require.NoError(t, repo.ReleaseLease(ctx, "drain:pixels"))
		processed, err = processor.Drain(ctx, entity.CollectionPixels, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
	})

	t.Run("failed batch is not re-enqueued", func(t *testing.T) {
		t.Parallel()
		repo := memory.NewRepository()
		durable := newFakeDurable()
		durable.err = errors.New("durable store down")
		processor := NewProcessor(repo, durable, config.Drain{})

		pushPixelJob(t, repo, entity.Pixel{X: 5, Y: 5, Color: "#ff0000", WalletAddress: "0xaa", PlacedAt: time.Now()})

		_, err := processor.Drain(ctx, entity.CollectionPixels, 10)
		require.Error(t, err)

		queued, err := repo.QueueLength(ctx, entity.CollectionPixels)
		require.NoError(t, err)
		assert.Equal(t, 0, queued)
	})

	t.Run("undecodable jobs are dropped", func(t *testing.T) {
		t.Parallel()
		repo := memory.NewRepository()
		durable := newFakeDurable()
		processor := NewProcessor(repo, durable, config.Drain{})

		require.NoError(t, repo.PushJob(ctx, entity.QueueJob{
			Collection: entity.CollectionPixels,
			Payload:    json.RawMessage(`{broken`),
			EnqueuedAt: time.Now(),
		}))
		pushPixelJob(t, repo, entity.Pixel{X: 7, Y: 7, Color: "#ff0000", WalletAddress: "0xaa", PlacedAt: time.Now()})

		processed, err := processor.Drain(ctx, entity.CollectionPixels, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, processed)
		assert.Len(t, durable.pixels, 1)
	})

	t.Run("respects batch size", func(t *testing.T) {
		t.Parallel()
		repo := memory.NewRepository()
		durable := newFakeDurable()
		processor := NewProcessor(repo, durable, config.Drain{})

		for i := 0; i < 5; i++ {
			pushPixelJob(t, repo, entity.Pixel{X: i, Y: 0, Color: "#ff0000", WalletAddress: "0xaa", PlacedAt: time.Now()})
		}

		processed, err := processor.Drain(ctx, entity.CollectionPixels, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, processed)

		queued, err := repo.QueueLength(ctx, entity.CollectionPixels)
		require.NoError(t, err)
		assert.Equal(t, 2, queued)
	})
}
