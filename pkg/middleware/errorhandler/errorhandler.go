package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
)

// kindStatus maps internal error kinds to HTTP status codes.
var kindStatus = map[errs.ErrorKind]int{
	errs.InvalidArgument:  http.StatusBadRequest,
	errs.NotFound:         http.StatusNotFound,
	errs.Forbidden:        http.StatusForbidden,
	errs.RateLimited:      http.StatusTooManyRequests,
	errs.Protected:        http.StatusConflict,
	errs.InvalidSignature: http.StatusUnauthorized,
	errs.Unavailable:      http.StatusServiceUnavailable,
}

// New setup error handler middleware
func New() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		for kind, status := range kindStatus {
			if errors.Is(err, kind) {
				message := kind.Error()
				if e := new(errs.PublicError); errors.As(err, &e) {
					message = e.Message()
				}
				return errors.WithStack(ctx.Status(status).JSON(fiber.Map{
					"error": message,
					"code":  string(kind),
				}))
			}
		}
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": e.Message(),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(fiber.Map{
				"error": e.Error(),
			}))
		}
		logger.ErrorContext(ctx.UserContext(), "Something went wrong, api error",
			slogx.String("event", "api_error"),
			slogx.Error(err),
		)
		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		}))
	}
}
