package httphandler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw request body, keyed
// with the shared webhook secret.
const signatureHeader = "X-Signature"

type transferWebhookRequest struct {
	Transfers []entity.TransferNotification `json:"transfers"`
}

type transferWebhookResult struct {
	Accepted int `json:"accepted"`
}

type transferWebhookResponse = HttpResponse[transferWebhookResult]

func (h *HttpHandler) TransferWebhook(ctx *fiber.Ctx) (err error) {
	body := ctx.Body()
	if err := h.verifySignature(body, ctx.Get(signatureHeader)); err != nil {
		return errors.WithStack(err)
	}

	var req transferWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return errs.WithPublicMessage(errors.Join(errs.InvalidArgument, err), "malformed webhook payload")
	}

	if err := h.usecase.InvalidateTransfers(ctx.UserContext(), req.Transfers); err != nil {
		return errors.WithStack(err)
	}

	resp := transferWebhookResponse{
		Result: &transferWebhookResult{Accepted: len(req.Transfers)},
	}
	return errors.WithStack(ctx.JSON(resp))
}

// verifySignature authenticates the raw body before anything is parsed or
// acted on. An unauthenticated notification has no side effects at all.
func (h *HttpHandler) verifySignature(body []byte, provided string) error {
	secret := h.conf.Webhook.Secret
	if secret == "" {
		return errors.Wrap(errs.InvalidSignature, "webhook secret is not configured")
	}
	if provided == "" {
		return errors.Wrap(errs.InvalidSignature, "missing webhook signature")
	}

	providedMAC, err := hex.DecodeString(provided)
	if err != nil {
		return errors.Wrap(errs.InvalidSignature, "malformed webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(providedMAC, mac.Sum(nil)) {
		return errors.Wrap(errs.InvalidSignature, "webhook signature mismatch")
	}
	return nil
}
