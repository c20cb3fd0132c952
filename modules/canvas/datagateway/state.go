package datagateway

import (
	"context"
	"time"

	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/shopspring/decimal"
)

// StateDataGateway is the authoritative front-line state store: the canvas,
// the append-only history log, the per-collection durable-write queues, the
// active ban set, the drain leases and the per-wallet bookkeeping. Every
// method is an atomic operation; implementations must never hold a lock
// across an external call.
type StateDataGateway interface {
	CanvasReaderDataGateway
	CanvasWriterDataGateway
	QueueDataGateway
	BanDataGateway
	LeaseDataGateway
	WalletStateDataGateway
}

type CanvasReaderDataGateway interface {
	// GetPixel returns the current pixel at (x, y). Returns errs.NotFound if
	// the cell is empty.
	GetPixel(ctx context.Context, x, y int) (*entity.Pixel, error)
	// GetCanvas returns a snapshot of every occupied cell.
	GetCanvas(ctx context.Context) ([]entity.Pixel, error)
	// GetHistorySince returns history entries placed at or after since,
	// newest first, up to limit entries.
	GetHistorySince(ctx context.Context, since time.Time, limit int) ([]entity.Pixel, error)
	// GetTopPlacers ranks wallets by admitted placement count at or after
	// since, descending, up to limit entries.
	GetTopPlacers(ctx context.Context, since time.Time, limit int) ([]entity.TopPlacer, error)
}

type CanvasWriterDataGateway interface {
	// SetPixel overwrites the cell at the pixel's coordinate unconditionally.
	SetPixel(ctx context.Context, pixel entity.Pixel) error
	// DeletePixel clears the cell at (x, y). Clearing an empty cell is a no-op.
	DeletePixel(ctx context.Context, x, y int) error
	// AppendHistory appends a pixel event to the write-once history log,
	// scored by its placement time.
	AppendHistory(ctx context.Context, pixel entity.Pixel) error
}

type QueueDataGateway interface {
	// PushJob appends a job to its collection queue in arrival order.
	PushJob(ctx context.Context, job entity.QueueJob) error
	// PopJobs removes and returns up to max jobs from the head of the
	// collection queue, preserving arrival order.
	PopJobs(ctx context.Context, collection entity.Collection, max int) ([]entity.QueueJob, error)
	// QueueLength reports the number of jobs waiting in the collection queue.
	QueueLength(ctx context.Context, collection entity.Collection) (int, error)
}

type BanDataGateway interface {
	IsBanned(ctx context.Context, walletAddress string) (bool, error)
	AddBan(ctx context.Context, walletAddress string) error
	RemoveBan(ctx context.Context, walletAddress string) error
}

type LeaseDataGateway interface {
	// AcquireLease attempts a compare-and-set style "acquire if absent" with
	// the given expiry. It reports false when the lease is already held.
	AcquireLease(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// ReleaseLease releases a held lease early. Releasing an expired or
	// unheld lease is a no-op.
	ReleaseLease(ctx context.Context, key string) error
}

type WalletStateDataGateway interface {
	// GetLastPlacement returns the wallet's last admitted placement time, or
	// the zero time if it has never placed.
	GetLastPlacement(ctx context.Context, walletAddress string) (time.Time, error)
	SetLastPlacement(ctx context.Context, walletAddress string, at time.Time) error

	// GetCachedBalance returns the cached token balance. A nil balance means
	// stale-or-absent: the caller must refetch from the oracle.
	GetCachedBalance(ctx context.Context, walletAddress string) (*decimal.Decimal, error)
	SetCachedBalance(ctx context.Context, walletAddress string, balance decimal.Decimal) error
	// InvalidateBalances marks the given wallets' balances stale without
	// refetching them.
	InvalidateBalances(ctx context.Context, walletAddresses []string) error
}
