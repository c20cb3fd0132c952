package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

// adminActor is recorded on ban records created through the HTTP surface.
const adminActor = "admin-api"

type banWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
	Reason        string `json:"reason"`
}

func (r banWalletRequest) Validate() error {
	var errList []error
	if r.WalletAddress == "" {
		errList = append(errList, errors.New("'wallet_address' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type banWalletResponse = HttpResponse[entity.BanRecord]

func (h *HttpHandler) BanWallet(ctx *fiber.Ctx) (err error) {
	var req banWalletRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(errors.Wrap(errs.InvalidArgument, err.Error()), "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.usecase.BanWallet(ctx.UserContext(), adminActor, req.WalletAddress, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := banWalletResponse{
		Result: &record,
	}
	return errors.WithStack(ctx.JSON(resp))
}

type unbanWalletRequest struct {
	Wallet string `params:"wallet"`
}

func (r unbanWalletRequest) Validate() error {
	if r.Wallet == "" {
		return errs.WithPublicMessage(errors.New("'wallet' is required"), "validation error")
	}
	return nil
}

type unbanWalletResult struct {
	WalletAddress string `json:"wallet_address"`
	Banned        bool   `json:"banned"`
}

type unbanWalletResponse = HttpResponse[unbanWalletResult]

func (h *HttpHandler) UnbanWallet(ctx *fiber.Ctx) (err error) {
	var req unbanWalletRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	if err := h.usecase.UnbanWallet(ctx.UserContext(), adminActor, req.Wallet); err != nil {
		return errors.WithStack(err)
	}

	resp := unbanWalletResponse{
		Result: &unbanWalletResult{WalletAddress: req.Wallet, Banned: false},
	}
	return errors.WithStack(ctx.JSON(resp))
}
