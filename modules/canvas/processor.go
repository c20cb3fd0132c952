package canvas

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/config"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/datagateway"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDrainInterval = 10 * time.Second
	defaultBatchSize     = 100
	defaultLeaseTTL      = 5 * time.Minute
)

// Processor drains the durable-write queues into the system of record. A
// time-boxed lease per collection prevents overlapping drains; an expired
// lease recovers on its own, so a crashed drain never blocks future ones.
type Processor struct {
	state   datagateway.StateDataGateway
	durable datagateway.DurableDataGateway

	interval  time.Duration
	batchSize int
	leaseTTL  time.Duration

	now func() time.Time
}

func NewProcessor(state datagateway.StateDataGateway, durable datagateway.DurableDataGateway, conf config.Drain) *Processor {
	interval := conf.Interval
	if interval <= 0 {
		interval = defaultDrainInterval
	}
	batchSize := conf.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	leaseTTL := conf.LeaseTTL
	if leaseTTL <= 0 {
		leaseTTL = defaultLeaseTTL
	}
	return &Processor{
		state:     state,
		durable:   durable,
		interval:  interval,
		batchSize: batchSize,
		leaseTTL:  leaseTTL,
		now:       time.Now,
	}
}

// Run drains every collection on a fixed interval until the context is done.
func (p *Processor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// collections hold their own leases, so they drain in parallel
			var wg errgroup.Group
			for _, collection := range entity.Collections {
				collection := collection
				wg.Go(func() error {
					processed, err := p.Drain(ctx, collection, p.batchSize)
					if err != nil {
						// failed jobs are not re-enqueued; surfaced for the operator
						logger.ErrorContext(ctx, "drain failed, jobs were not committed to the durable store",
							slogx.Error(err),
							slogx.Stringer("collection", collection),
						)
						return nil
					}
					if processed > 0 {
						logger.DebugContext(ctx, "drained durable-write queue",
							slogx.Stringer("collection", collection),
							slogx.Int("processed", processed),
						)
					}
					return nil
				})
			}
			_ = wg.Wait()
		}
	}
}

// Drain moves up to batchSize jobs from the collection queue into the
// durable store. It is a no-op returning 0 when another drain holds the
// lease. Durable writes are upserts, so redelivered jobs re-apply cleanly.
func (p *Processor) Drain(ctx context.Context, collection entity.Collection, batchSize int) (int, error) {
	leaseKey := "drain:" + collection.String()
	acquired, err := p.state.AcquireLease(ctx, leaseKey, p.leaseTTL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to acquire drain lease")
	}
	if !acquired {
		// another drain is in flight or recently finished
		return 0, nil
	}
	defer func() {
		if err := p.state.ReleaseLease(ctx, leaseKey); err != nil {
			logger.WarnContext(ctx, "failed to release drain lease, it will expire on its own",
				slogx.Error(err),
				slogx.String("lease", leaseKey),
			)
		}
	}()

	jobs, err := p.state.PopJobs(ctx, collection, batchSize)
	if err != nil {
		return 0, errors.Wrap(err, "failed to pop jobs")
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	if err := p.apply(ctx, collection, jobs); err != nil {
		return 0, errors.Wrapf(err, "failed to commit %d jobs", len(jobs))
	}
	return len(jobs), nil
}

// apply decodes the batch and upserts it by the collection's natural key.
// Jobs that fail to decode are dropped with an error log; they can never
// succeed on retry.
func (p *Processor) apply(ctx context.Context, collection entity.Collection, jobs []entity.QueueJob) error {
	switch collection {
	case entity.CollectionPixels:
		return p.durable.UpsertPixels(ctx, decodeJobs[entity.Pixel](ctx, jobs))
	case entity.CollectionWallets:
		return p.durable.UpsertWallets(ctx, decodeJobs[entity.WalletProfile](ctx, jobs))
	case entity.CollectionBans:
		return p.durable.UpsertBans(ctx, decodeJobs[entity.BanRecord](ctx, jobs))
	default:
		return errors.Errorf("unknown collection %q", collection)
	}
}

func decodeJobs[T any](ctx context.Context, jobs []entity.QueueJob) []T {
	out := make([]T, 0, len(jobs))
	for _, job := range jobs {
		var decoded T
		if err := json.Unmarshal(job.Payload, &decoded); err != nil {
			logger.ErrorContext(ctx, "dropping undecodable queue job",
				slogx.Error(err),
				slogx.Stringer("collection", job.Collection),
			)
			continue
		}
		out = append(out, decoded)
	}
	return out
}
