package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/shopspring/decimal"
)

type getWalletStatusRequest struct {
	Wallet string `params:"wallet"`
}

func (r getWalletStatusRequest) Validate() error {
	if r.Wallet == "" {
		return errs.WithPublicMessage(errors.New("'wallet' is required"), "validation error")
	}
	return nil
}

type walletStatusResult struct {
	WalletAddress            string          `json:"wallet_address"`
	Balance                  decimal.Decimal `json:"balance"`
	Tier                     string          `json:"tier"`
	CooldownSeconds          int64           `json:"cooldown_seconds"`
	CooldownRemainingSeconds int64           `json:"cooldown_remaining_seconds"`
	ProtectionSeconds        int64           `json:"protection_seconds"`
	Banned                   bool            `json:"banned"`
	LastPlacement            *time.Time      `json:"last_placement"`
}

type getWalletStatusResponse = HttpResponse[walletStatusResult]

func (h *HttpHandler) GetWalletStatus(ctx *fiber.Ctx) (err error) {
	var req getWalletStatusRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	status, err := h.usecase.GetWalletStatus(ctx.UserContext(), req.Wallet)
	if err != nil {
		return errors.WithStack(err)
	}

	var lastPlacement *time.Time
	if !status.LastPlacement.IsZero() {
		lastPlacement = &status.LastPlacement
	}

	resp := getWalletStatusResponse{
		Result: &walletStatusResult{
			WalletAddress:            status.WalletAddress,
			Balance:                  status.Balance,
			Tier:                     status.Tier,
			CooldownSeconds:          int64(status.Cooldown.Seconds()),
			CooldownRemainingSeconds: int64(status.CooldownRemaining.Seconds()),
			ProtectionSeconds:        int64(status.Protection.Seconds()),
			Banned:                   status.Banned,
			LastPlacement:            lastPlacement,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
