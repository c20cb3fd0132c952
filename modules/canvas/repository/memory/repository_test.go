package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelOverwrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	_, err := repo.GetPixel(ctx, 5, 5)
	assert.ErrorIs(t, err, errs.NotFound)

	first := entity.Pixel{X: 5, Y: 5, Color: "#ff0000", WalletAddress: "0xaa", PlacedAt: time.Now()}
	require.NoError(t, repo.SetPixel(ctx, first))

	second := entity.Pixel{X: 5, Y: 5, Color: "#00ff00", WalletAddress: "0xbb", PlacedAt: time.Now()}
	require.NoError(t, repo.SetPixel(ctx, second))

	got, err := repo.GetPixel(ctx, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", got.Color)
	assert.Equal(t, "0xbb", got.WalletAddress)

	canvas, err := repo.GetCanvas(ctx)
	require.NoError(t, err)
	assert.Len(t, canvas, 1)

	require.NoError(t, repo.DeletePixel(ctx, 5, 5))
	_, err = repo.GetPixel(ctx, 5, 5)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestQueueFIFO(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	for i := 0; i < 5; i++ {
		payload, _ := json.Marshal(map[string]int{"seq": i})
		require.NoError(t, repo.PushJob(ctx, entity.QueueJob{
			Collection: entity.CollectionPixels,
			Payload:    payload,
			EnqueuedAt: time.Now(),
		}))
	}

	length, err := repo.QueueLength(ctx, entity.CollectionPixels)
	require.NoError(t, err)
	assert.Equal(t, 5, length)

	jobs, err := repo.PopJobs(ctx, entity.CollectionPixels, 3)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	for i, job := range jobs {
		var decoded map[string]int
		require.NoError(t, json.Unmarshal(job.Payload, &decoded))
		assert.Equal(t, i, decoded["seq"])
	}

	jobs, err = repo.PopJobs(ctx, entity.CollectionPixels, 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	jobs, err = repo.PopJobs(ctx, entity.CollectionPixels, 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestLeaseExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	now := time.Now()
	repo.now = func() time.Time { return now }

	acquired, err := repo.AcquireLease(ctx, "drain:pixels", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// held lease denies a second acquire
	acquired, err = repo.AcquireLease(ctx, "drain:pixels", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	// independent key is unaffected
	acquired, err = repo.AcquireLease(ctx, "drain:wallets", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// past the time-box the lease recovers without a release
	now = now.Add(5*time.Minute + time.Second)
	acquired, err = repo.AcquireLease(ctx, "drain:pixels", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, repo.ReleaseLease(ctx, "drain:pixels"))
	acquired, err = repo.AcquireLease(ctx, "drain:pixels", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestHistoryAndTopPlacers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	base := time.Now()
	place := func(wallet string, x int, at time.Time, void bool) {
		require.NoError(t, repo.AppendHistory(ctx, entity.Pixel{
			X: x, Y: 0, Color: "#000000", WalletAddress: wallet, PlacedAt: at, IsVoid: void,
		}))
	}

	place("0xaa", 0, base.Add(-2*time.Hour), false)
	place("0xaa", 1, base, false)
	place("0xaa", 2, base.Add(time.Second), false)
	place("0xbb", 3, base.Add(2*time.Second), false)
	place("0xcc", 4, base.Add(3*time.Second), true) // void entries don't count

	recent, err := repo.GetHistorySince(ctx, base, 10)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	// newest first
	assert.Equal(t, 4, recent[0].X)
	assert.Equal(t, 1, recent[3].X)

	limited, err := repo.GetHistorySince(ctx, base, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	placers, err := repo.GetTopPlacers(ctx, base, 10)
	require.NoError(t, err)
	require.Len(t, placers, 2)
	assert.Equal(t, entity.TopPlacer{WalletAddress: "0xaa", Count: 2}, placers[0])
	assert.Equal(t, entity.TopPlacer{WalletAddress: "0xbb", Count: 1}, placers[1])
}

func TestBalanceInvalidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	balance, err := repo.GetCachedBalance(ctx, "0xaa")
	require.NoError(t, err)
	assert.Nil(t, balance)

	require.NoError(t, repo.SetCachedBalance(ctx, "0xaa", decimal.New(42, 0)))
	balance, err = repo.GetCachedBalance(ctx, "0xaa")
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.True(t, balance.Equal(decimal.New(42, 0)))

	require.NoError(t, repo.InvalidateBalances(ctx, []string{"0xaa", "0xbb"}))
	balance, err = repo.GetCachedBalance(ctx, "0xaa")
	require.NoError(t, err)
	assert.Nil(t, balance)
}

func TestBanSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	banned, err := repo.IsBanned(ctx, "0xaa")
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, repo.AddBan(ctx, "0xaa"))
	banned, err = repo.IsBanned(ctx, "0xaa")
	require.NoError(t, err)
	assert.True(t, banned)

	require.NoError(t, repo.RemoveBan(ctx, "0xaa"))
	banned, err = repo.IsBanned(ctx, "0xaa")
	require.NoError(t, err)
	assert.False(t, banned)
}
