package canvas

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/internal/config"
	"github.com/pixelgrid-network/pixelgrid/internal/postgres"
	canvasapi "github.com/pixelgrid-network/pixelgrid/modules/canvas/api/httphandler"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/datagateway"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/fanout"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/oracle"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/repository/memory"
	canvaspostgres "github.com/pixelgrid-network/pixelgrid/modules/canvas/repository/postgres"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/usecase"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

// Worker is the canvas module's background half: the queue processor plus the
// resources it owns. Run blocks until the context is cancelled.
type Worker struct {
	processor    *Processor
	cleanupFuncs []func(context.Context) error
}

func (w *Worker) Run(ctx context.Context) error {
	defer func() {
		for _, cleanup := range w.cleanupFuncs {
			if err := cleanup(context.Background()); err != nil {
				logger.Error("cleanup failed", slogx.Error(err))
			}
		}
	}()
	return w.processor.Run(ctx)
}

// New wires the canvas module: the front-line state store, the durable
// mirror, the balance oracle, the realtime fanout, the HTTP surface and the
// queue processor.
func New(injector do.Injector) (*Worker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	state := memory.NewRepository()

	var durable datagateway.DurableDataGateway
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(conf.Canvas.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Canvas.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "invalid Postgres configuration for canvas")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		durable = canvaspostgres.NewRepository(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for canvas is not supported", conf.Canvas.Database)
	}

	oracleClient, err := oracle.NewClient(conf.Canvas.Oracle)
	if err != nil {
		return nil, errors.Wrap(err, "can't create balance oracle client")
	}

	realtimeFanout := fanout.New()
	canvasUsecase := usecase.New(state, oracleClient, realtimeFanout, conf.Canvas.Grid)

	apiHandlers := lo.Uniq(conf.Canvas.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			httpHandler := canvasapi.New(conf.Canvas, canvasUsecase, realtimeFanout)
			if err := httpHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount canvas API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	processor := NewProcessor(state, durable, conf.Canvas.Drain)
	return &Worker{
		processor:    processor,
		cleanupFuncs: cleanupFuncs,
	}, nil
}
