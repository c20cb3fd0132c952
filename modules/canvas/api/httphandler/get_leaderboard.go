package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

type getLeaderboardRequest struct {
	Since int64 `query:"since"` // unix seconds; zero means the default window
	Limit int   `query:"limit"`
}

type getLeaderboardResult struct {
	List []entity.TopPlacer `json:"list"`
}

type getLeaderboardResponse = HttpResponse[getLeaderboardResult]

func (h *HttpHandler) GetLeaderboard(ctx *fiber.Ctx) (err error) {
	var req getLeaderboardRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}

	var since time.Time
	if req.Since > 0 {
		since = time.Unix(req.Since, 0)
	}

	placers, err := h.usecase.GetLeaderboard(ctx.UserContext(), since, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetLeaderboard")
	}

	resp := getLeaderboardResponse{
		Result: &getLeaderboardResult{
			List: placers,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
