package usecase

import (
	"time"

	"github.com/pixelgrid-network/pixelgrid/modules/canvas/config"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/datagateway"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/fanout"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/oracle"
)

const (
	// leaderboardWindow bounds the "recent placements" aggregate attached to
	// realtime events and served by the leaderboard endpoint.
	leaderboardWindow = 24 * time.Hour

	// leaderboardSize bounds the number of rows in a leaderboard snapshot.
	leaderboardSize = 10
)

type Usecase struct {
	state  datagateway.StateDataGateway
	oracle oracle.Contract
	fanout *fanout.Fanout
	grid   config.Grid

	// now is swappable so cooldown and protection windows are testable.
	now func() time.Time
}

func New(state datagateway.StateDataGateway, oracleClient oracle.Contract, realtimeFanout *fanout.Fanout, grid config.Grid) *Usecase {
	return &Usecase{
		state:  state,
		oracle: oracleClient,
		fanout: realtimeFanout,
		grid:   grid,
		now:    time.Now,
	}
}
