package postgres

import (
	"github.com/pixelgrid-network/pixelgrid/internal/postgres"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/datagateway"
)

var _ datagateway.DurableDataGateway = (*Repository)(nil)

// Repository writes the durable mirror of the canvas. Every statement is an
// upsert keyed by the record's natural identifier so queue-job redelivery is
// idempotent.
type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db: db,
	}
}
