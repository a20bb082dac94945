package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"poligrama.dev/backend/internal/pkg/pgerr"
)

// Accepts rejects requests whose Accept header matches none of mimes. A
// missing header accepts anything.
func Accepts(mimes ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Accepts(mimes...) != "" {
			return ctx.Next()
		}

		return pgerr.ErrInvalidReq.Msg("invalid or missing Accept header. Accepts: %s", strings.Join(mimes, ", "))
	}
}
