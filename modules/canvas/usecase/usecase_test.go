package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/config"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/datagateway"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/fanout"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	err      error
	calls    int
}

func (f *fakeOracle) GetTokenBalance(_ context.Context, walletAddress string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.balances[walletAddress], nil
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testWallet(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newTestUsecase(oracleClient *fakeOracle) (*Usecase, *memory.Repository, *testClock) {
	repo := memory.NewRepository()
	clk := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	u := New(repo, oracleClient, fanout.New(), config.Grid{Width: 100, Height: 100})
	u.now = clk.Now
	return u, repo, clk
}

func TestPlacePixel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	memberA := testWallet(0xa)
	memberB := testWallet(0xb)
	goldA := testWallet(0xc)
	goldB := testWallet(0xd)

	oracleClient := &fakeOracle{balances: map[string]decimal.Decimal{
		memberA: decimal.New(500_000, 0),
		memberB: decimal.New(500_000, 0),
		goldA:   decimal.New(200_000_000, 0),
		goldB:   decimal.New(150_000_000, 0),
	}}
	u, repo, clk := newTestUsecase(oracleClient)
	base := clk.Now()

	// fresh member wallet is admitted
	pixel, err := u.PlacePixel(ctx, memberA, 5, 5, "#FF0000")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", pixel.Color)
	assert.Equal(t, memberA, pixel.WalletAddress)
	assert.Equal(t, base, pixel.PlacedAt)

	pixelJobs, err := repo.QueueLength(ctx, entity.CollectionPixels)
	require.NoError(t, err)
	assert.Equal(t, 1, pixelJobs)
	walletJobs, err := repo.QueueLength(ctx, entity.CollectionWallets)
	require.NoError(t, err)
	assert.Equal(t, 1, walletJobs)

	// a member is rate limited for 30 seconds
	clk.Set(base.Add(10 * time.Second))
	_, err = u.PlacePixel(ctx, memberA, 6, 6, "#ff0000")
	assert.True(t, errors.Is(err, errs.RateLimited))

	// the cooldown bound is inclusive of the elapsed duration
	clk.Set(base.Add(30 * time.Second))
	_, err = u.PlacePixel(ctx, memberA, 1, 1, "#00ff00")
	require.NoError(t, err)

	// a member pixel has no protection window, anyone may overwrite it
	goldAt := base.Add(30 * time.Second)
	_, err = u.PlacePixel(ctx, goldA, 5, 5, "#0000ff")
	require.NoError(t, err)

	// a lower tier cannot touch a protected pixel
	clk.Set(goldAt.Add(time.Second))
	_, err = u.PlacePixel(ctx, memberB, 5, 5, "#ffffff")
	assert.True(t, errors.Is(err, errs.Protected))

	// the owner may always overwrite its own pixel once off cooldown
	clk.Set(goldAt.Add(15 * time.Second))
	pixel, err = u.PlacePixel(ctx, goldA, 5, 5, "#123abc")
	require.NoError(t, err)
	assert.Equal(t, "#123abc", pixel.Color)

	// an equal tier is not blocked by the protection window
	clk.Set(goldAt.Add(20 * time.Second))
	_, err = u.PlacePixel(ctx, goldB, 5, 5, "#abc123")
	require.NoError(t, err)

	// a banned wallet is rejected before anything else
	require.NoError(t, repo.AddBan(ctx, goldB))
	clk.Set(goldAt.Add(5 * time.Minute))
	_, err = u.PlacePixel(ctx, goldB, 7, 7, "#abc123")
	assert.True(t, errors.Is(err, errs.Forbidden))
}

func TestPlacePixelValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, _, _ := newTestUsecase(&fakeOracle{balances: map[string]decimal.Decimal{}})

	testcases := []struct {
		name   string
		wallet string
		x, y   int
		color  string
	}{
		{name: "malformed wallet", wallet: "not-a-wallet", x: 0, y: 0, color: "#ff0000"},
		{name: "wallet too short", wallet: "0xabc", x: 0, y: 0, color: "#ff0000"},
		{name: "malformed color", wallet: testWallet(1), x: 0, y: 0, color: "red"},
		{name: "color without hash", wallet: testWallet(1), x: 0, y: 0, color: "ff0000"},
		{name: "x out of bounds", wallet: testWallet(1), x: 100, y: 0, color: "#ff0000"},
		{name: "negative y", wallet: testWallet(1), x: 0, y: -1, color: "#ff0000"},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := u.PlacePixel(ctx, tc.wallet, tc.x, tc.y, tc.color)
			assert.True(t, errors.Is(err, errs.InvalidArgument))
		})
	}
}

func TestPlacePixelOracleFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wallet := testWallet(0x1f)
	oracleClient := &fakeOracle{err: errors.New("oracle down")}
	u, _, clk := newTestUsecase(oracleClient)
	base := clk.Now()

	// an unreachable oracle degrades the wallet to the lowest tier instead of
	// failing the placement
	_, err := u.PlacePixel(ctx, wallet, 0, 0, "#ff0000")
	require.NoError(t, err)

	clk.Set(base.Add(20 * time.Second))
	_, err = u.PlacePixel(ctx, wallet, 0, 1, "#ff0000")
	assert.True(t, errors.Is(err, errs.RateLimited), "lowest tier cooldown applies")

	// failures are not cached, the next admission retries the oracle
	firstCalls := oracleClient.callCount()
	clk.Set(base.Add(time.Minute))
	_, err = u.PlacePixel(ctx, wallet, 0, 1, "#ff0000")
	require.NoError(t, err)
	assert.Greater(t, oracleClient.callCount(), firstCalls)
}

type failingCanvas struct {
	datagateway.StateDataGateway
}

func (failingCanvas) SetPixel(context.Context, entity.Pixel) error {
	return errors.New("canvas write failed")
}

func TestPlacePixelFailedWriteKeepsCooldownSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wallet := testWallet(0x2a)
	oracleClient := &fakeOracle{balances: map[string]decimal.Decimal{}}
	u, repo, clk := newTestUsecase(oracleClient)
	u.state = failingCanvas{StateDataGateway: repo}

	_, err := u.PlacePixel(ctx, wallet, 3, 3, "#ff0000")
	require.Error(t, err)

	// the failed write consumed nothing, the wallet may retry immediately
	u.state = repo
	_, err = u.PlacePixel(ctx, wallet, 3, 3, "#ff0000")
	require.NoError(t, err)

	last, err := repo.GetLastPlacement(ctx, wallet)
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), last)
}

func TestInvalidateTransfers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wallet := testWallet(0x3c)
	oracleClient := &fakeOracle{balances: map[string]decimal.Decimal{
		wallet: decimal.New(200_000_000, 0),
	}}
	u, _, clk := newTestUsecase(oracleClient)
	base := clk.Now()

	_, err := u.PlacePixel(ctx, wallet, 0, 0, "#ff0000")
	require.NoError(t, err)
	cachedCalls := oracleClient.callCount()

	// the cached balance serves the next admission without an oracle call
	clk.Set(base.Add(10 * time.Second))
	_, err = u.PlacePixel(ctx, wallet, 0, 1, "#ff0000")
	require.NoError(t, err)
	assert.Equal(t, cachedCalls, oracleClient.callCount())

	// a transfer notification marks both parties stale
	oracleClient.mu.Lock()
	oracleClient.balances[wallet] = decimal.New(500_000, 0)
	oracleClient.mu.Unlock()
	err = u.InvalidateTransfers(ctx, []entity.TransferNotification{
		{From: wallet, To: testWallet(0x3d)},
	})
	require.NoError(t, err)

	// the refetched balance demotes the wallet, its old cooldown no longer fits
	clk.Set(base.Add(30 * time.Second))
	_, err = u.PlacePixel(ctx, wallet, 0, 2, "#ff0000")
	assert.True(t, errors.Is(err, errs.RateLimited))
	assert.Greater(t, oracleClient.callCount(), cachedCalls)
}

func TestInvalidateTransfersSkipsInvalidParties(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, repo, _ := newTestUsecase(&fakeOracle{balances: map[string]decimal.Decimal{}})

	wallet := testWallet(0x4e)
	require.NoError(t, repo.SetCachedBalance(ctx, wallet, decimal.New(1, 0)))

	err := u.InvalidateTransfers(ctx, []entity.TransferNotification{
		{From: zeroAddress, To: "garbage"},
		{From: zeroAddress, To: zeroAddress},
	})
	require.NoError(t, err)

	cached, err := repo.GetCachedBalance(ctx, wallet)
	require.NoError(t, err)
	assert.NotNil(t, cached, "unrelated cache entries stay fresh")
}

func TestGetWalletStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wallet := testWallet(0x5b)
	oracleClient := &fakeOracle{balances: map[string]decimal.Decimal{
		wallet: decimal.New(200_000_000, 0),
	}}
	u, repo, clk := newTestUsecase(oracleClient)
	base := clk.Now()

	_, err := u.PlacePixel(ctx, wallet, 9, 9, "#ff0000")
	require.NoError(t, err)

	clk.Set(base.Add(4 * time.Second))
	status, err := u.GetWalletStatus(ctx, wallet)
	require.NoError(t, err)
	assert.Equal(t, "Gold", status.Tier)
	assert.Equal(t, 6*time.Second, status.CooldownRemaining)
	assert.Equal(t, base, status.LastPlacement)
	assert.False(t, status.Banned)

	require.NoError(t, repo.AddBan(ctx, wallet))
	status, err = u.GetWalletStatus(ctx, wallet)
	require.NoError(t, err)
	assert.True(t, status.Banned)
}

func TestClearRegion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wallet := testWallet(0x6d)
	oracleClient := &fakeOracle{balances: map[string]decimal.Decimal{
		wallet: decimal.New(2_000_000_000, 0),
	}}
	u, repo, clk := newTestUsecase(oracleClient)
	base := clk.Now()

	for i := 0; i < 3; i++ {
		clk.Set(base.Add(time.Duration(i*5) * time.Second))
		_, err := u.PlacePixel(ctx, wallet, i, 0, "#ff0000")
		require.NoError(t, err)
	}

	// the region is inclusive of both corners, empty cells are skipped
	cleared, err := u.ClearRegion(ctx, 0, 0, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, cleared)

	_, err = u.GetPixel(ctx, 0, 0)
	assert.True(t, errors.Is(err, errs.NotFound))

	// void history entries do not count toward the leaderboard
	placers, err := repo.GetTopPlacers(ctx, base, 10)
	require.NoError(t, err)
	require.Len(t, placers, 1)
	assert.Equal(t, 3, placers[0].Count)

	_, err = u.ClearRegion(ctx, 4, 4, 0, 0)
	assert.True(t, errors.Is(err, errs.InvalidArgument), "inverted corners are rejected")
}
