package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/pkg/flog"
)

// RequestID copies the request id set by Logger into the fiber locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(constant.ContextKeyRequestID, id.String())
		}
		return c.Next()
	}
}

// RequestIDFrom returns the id stored by RequestID, if any.
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(constant.ContextKeyRequestID).(string)
	return id
}
