package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

type getHistoryRequest struct {
	Since int64 `query:"since"` // unix seconds; zero means the default window
	Limit int   `query:"limit"`
}

type getHistoryResult struct {
	List []entity.Pixel `json:"list"`
}

type getHistoryResponse = HttpResponse[getHistoryResult]

func (h *HttpHandler) GetHistory(ctx *fiber.Ctx) (err error) {
	var req getHistoryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}

	var since time.Time
	if req.Since > 0 {
		since = time.Unix(req.Since, 0)
	}

	entries, err := h.usecase.GetRecentActivity(ctx.UserContext(), since, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetRecentActivity")
	}

	resp := getHistoryResponse{
		Result: &getHistoryResult{
			List: entries,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
