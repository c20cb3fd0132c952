package memory

import (
	"sync"
	"time"

	"github.com/pixelgrid-network/pixelgrid/modules/canvas/datagateway"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/shopspring/decimal"
)

var _ datagateway.StateDataGateway = (*Repository)(nil)

// Repository is an in-memory StateDataGateway guarded by per-concern locks.
// It provides the atomic primitives the placement pipeline relies on without
// ever holding a lock across I/O.
type Repository struct {
	canvasMu sync.RWMutex
	pixels   map[entity.Coord]entity.Pixel

	historyMu sync.RWMutex
	history   []entity.Pixel

	queueMu sync.Mutex
	queues  map[entity.Collection][]entity.QueueJob

	banMu sync.RWMutex
	bans  map[string]struct{}

	leaseMu sync.Mutex
	leases  map[string]time.Time

	walletMu      sync.RWMutex
	lastPlacement map[string]time.Time
	balances      map[string]*decimal.Decimal

	// now is swappable so lease expiry is testable.
	now func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		pixels:        make(map[entity.Coord]entity.Pixel),
		queues:        make(map[entity.Collection][]entity.QueueJob),
		bans:          make(map[string]struct{}),
		leases:        make(map[string]time.Time),
		lastPlacement: make(map[string]time.Time),
		balances:      make(map[string]*decimal.Decimal),
		now:           time.Now,
	}
}
