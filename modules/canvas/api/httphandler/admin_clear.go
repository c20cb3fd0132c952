package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

// clearPixelsRequest clears either a rectangular region (all four corners set)
// or an explicit pixel list, never both.
type clearPixelsRequest struct {
	StartX *int           `json:"start_x"`
	StartY *int           `json:"start_y"`
	EndX   *int           `json:"end_x"`
	EndY   *int           `json:"end_y"`
	Pixels []entity.Coord `json:"pixels"`
}

func (r clearPixelsRequest) isRegion() bool {
	return r.StartX != nil && r.StartY != nil && r.EndX != nil && r.EndY != nil
}

func (r clearPixelsRequest) Validate() error {
	hasCorner := r.StartX != nil || r.StartY != nil || r.EndX != nil || r.EndY != nil
	var errList []error
	if hasCorner && !r.isRegion() {
		errList = append(errList, errors.New("a region needs all of 'start_x', 'start_y', 'end_x', 'end_y'"))
	}
	if r.isRegion() && len(r.Pixels) > 0 {
		errList = append(errList, errors.New("'pixels' cannot be combined with a region"))
	}
	if !hasCorner && len(r.Pixels) == 0 {
		errList = append(errList, errors.New("either a region or 'pixels' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type clearPixelsResult struct {
	Cleared int `json:"cleared"`
}

type clearPixelsResponse = HttpResponse[clearPixelsResult]

func (h *HttpHandler) ClearPixels(ctx *fiber.Ctx) (err error) {
	var req clearPixelsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(errors.Wrap(errs.InvalidArgument, err.Error()), "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	var cleared int
	if req.isRegion() {
		cleared, err = h.usecase.ClearRegion(ctx.UserContext(), *req.StartX, *req.StartY, *req.EndX, *req.EndY)
	} else {
		cleared, err = h.usecase.ClearPixels(ctx.UserContext(), req.Pixels)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	resp := clearPixelsResponse{
		Result: &clearPixelsResult{Cleared: cleared},
	}
	return errors.WithStack(ctx.JSON(resp))
}
