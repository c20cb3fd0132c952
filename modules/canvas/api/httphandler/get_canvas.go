package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/usecase"
)

type getCanvasResponse = HttpResponse[usecase.CanvasSnapshot]

func (h *HttpHandler) GetCanvas(ctx *fiber.Ctx) (err error) {
	snapshot, err := h.usecase.GetCanvas(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetCanvas")
	}

	resp := getCanvasResponse{
		Result: &snapshot,
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getPixelRequest struct {
	X int `query:"x"`
	Y int `query:"y"`
}

type getPixelResponse = HttpResponse[entity.Pixel]

func (h *HttpHandler) GetPixel(ctx *fiber.Ctx) (err error) {
	var req getPixelRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}

	pixel, err := h.usecase.GetPixel(ctx.UserContext(), req.X, req.Y)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := getPixelResponse{
		Result: &pixel,
	}
	return errors.WithStack(ctx.JSON(resp))
}
