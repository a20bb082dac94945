package httpserver

import (
	"strconv"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"poligrama.dev/backend/internal/pkg/middlewares"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

func handleCustomError(ctx *fiber.Ctx, e *pgerr.Error) error {
	log.Warn().
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if e, ok := pgerr.As(err); ok {
		return handleCustomError(ctx, e)
	}

	// copy, so the shared sentinel is never mutated
	re := *pgerr.ErrInternalError

	if e, ok := err.(*fiber.Error); ok {
		re.StatusCode = e.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = e.Message
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		hub.Scope().SetTag("request_id", middlewares.RequestIDFrom(ctx))
		hub.CaptureException(err)
	}

	return handleCustomError(ctx, &re)
}
