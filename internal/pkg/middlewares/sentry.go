package middlewares

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"poligrama.dev/backend/internal/constant"
)

func EnrichSentry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(constant.SlimHeaderKey) != "" {
			return c.Next()
		}

		if hub := fibersentry.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag("request_id", RequestIDFrom(c))
		}

		var r http.Request
		if err := fasthttpadaptor.ConvertRequest(c.Context(), &r, true); err != nil {
			return err
		}
		rootSpan := sentry.StartSpan(c.Context(), "http.server", sentry.ContinueFromRequest(&r), sentry.WithTransactionName(c.Method()+" "+c.Path()))
		defer rootSpan.Finish()

		return c.Next()
	}
}
