package httphandler

import (
	"crypto/subtle"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/canvas")

	r.Get("/", h.GetCanvas)
	r.Get("/pixel", h.GetPixel)
	r.Post("/pixel", h.PlacePixel)
	r.Get("/history", h.GetHistory)
	r.Get("/leaderboard", h.GetLeaderboard)
	r.Get("/wallet/:wallet", h.GetWalletStatus)

	r.Use("/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/live", websocket.New(h.live))

	router.Post("/v1/webhooks/transfers", h.TransferWebhook)

	admin := router.Group("/v1/admin", h.requireAdmin)
	admin.Post("/ban", h.BanWallet)
	admin.Delete("/ban/:wallet", h.UnbanWallet)
	admin.Post("/clear", h.ClearPixels)

	return nil
}

// requireAdmin rejects any administrative request without the configured
// bearer token, before any handler runs.
func (h *HttpHandler) requireAdmin(c *fiber.Ctx) error {
	token := h.conf.Admin.Token
	if token == "" {
		return errors.Wrap(errs.Forbidden, "administrative surface is not configured")
	}

	const prefix = "Bearer "
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return errors.Wrap(errs.Forbidden, "missing administrative credentials")
	}
	provided := header[len(prefix):]
	if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
		return errors.Wrap(errs.Forbidden, "invalid administrative credentials")
	}
	return c.Next()
}
