package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

type placePixelRequest struct {
	WalletAddress string `json:"wallet_address"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Color         string `json:"color"`
}

func (r placePixelRequest) Validate() error {
	var errList []error
	if r.WalletAddress == "" {
		errList = append(errList, errors.New("'wallet_address' is required"))
	}
	if r.Color == "" {
		errList = append(errList, errors.New("'color' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type placePixelResponse = HttpResponse[entity.Pixel]

func (h *HttpHandler) PlacePixel(ctx *fiber.Ctx) (err error) {
	var req placePixelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(errors.Wrap(errs.InvalidArgument, err.Error()), "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	pixel, err := h.usecase.PlacePixel(ctx.UserContext(), req.WalletAddress, req.X, req.Y, req.Color)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := placePixelResponse{
		Result: &pixel,
	}
	return errors.WithStack(ctx.JSON(resp))
}
