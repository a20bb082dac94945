package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"poligrama.dev/backend/internal/util/rekuest"
)

const bodyLocalsKey = "body"

// InjectValidBody parses and validates the body as T before the handler
// runs. The handler reads it back with Body.
func InjectValidBody[T any]() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		dest := new(T)
		if err := rekuest.ValidBody(ctx, dest); err != nil {
			return err
		}

		ctx.Locals(bodyLocalsKey, dest)

		return ctx.Next()
	}
}

// Body returns the value stored by InjectValidBody.
func Body[T any](ctx *fiber.Ctx) *T {
	v, _ := ctx.Locals(bodyLocalsKey).(*T)
	return v
}
