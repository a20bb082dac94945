package httpserver

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/pkg/bininfo"
	"poligrama.dev/backend/internal/pkg/middlewares"
	"poligrama.dev/backend/internal/pkg/observability"
)

var registerPromOnce sync.Once

func Create(conf *appconfig.Config, tp trace.TracerProvider) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Poligrama Backend",
		ServerHeader: fmt.Sprintf("Poligrama/%s", bininfo.Version),
		// NOTICE: rendering a large batch may take a while; keep this above the slowest expected batch.
		ReadTimeout:    time.Second * 20,
		WriteTimeout:   time.Second * 60,
		ReadBufferSize: 8192,
		BodyLimit:      constant.RequestBodyLimit,
		// allow possibility for graceful shutdown, otherwise app#Shutdown() will block forever
		IdleTimeout:             conf.HTTPServerShutdownTimeout,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          conf.TrustedProxies,
		ErrorHandler:            ErrorHandler,
		Immutable:               true,
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
	})

	app.Use(favicon.New())
	app.Use(fibersentry.New(fibersentry.Config{
		Repanic: true,
		Timeout: time.Second * 5,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
		AllowHeaders: strings.Join([]string{
			"Content-Type",
			"Accept-Language",
			"X-Requested-With",
			"sentry-trace",
			constant.IdempotencyKeyHeader,
			constant.RequestIDHeader,
		}, ", "),
		ExposeHeaders: strings.Join([]string{
			"Content-Type",
			"Content-Disposition",
			constant.IdempotencyHeader,
			constant.RequestIDHeader,
		}, ", "),
	}))
	middlewares.Logger(app)
	// the logger middleware injects RequestID into the context,
	// and we need an extra middleware to extract it and repopulate it into ctx.Locals
	app.Use(middlewares.RequestID())

	app.Use(helmet.New(helmet.Config{
		HSTSMaxAge:         31356000,
		HSTSPreloadEnabled: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		PermissionPolicy:   "interest-cohort=()",
	}))
	app.Use(middlewares.InjectI18n())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().Msgf("panic: %v\n%s\n", e, buf)
		},
	}))
	registerPromOnce.Do(func() {
		fiberprom := fiberprometheus.New(observability.ServiceName)
		fiberprom.RegisterAt(app, "/metrics")
		app.Use(fiberprom.Middleware)
	})

	if conf.TracingEnabled {
		app.Use(otelfiber.Middleware(
			otelfiber.WithTracerProvider(tp),
			otelfiber.WithNext(func(c *fiber.Ctx) bool {
				return c.Path() == "/metrics"
			}),
		))
	}

	if conf.DevMode {
		log.Info().Msg("Running in DEV mode")
		app.Use(pprof.New())
	}

	if !conf.DevMode {
		app.Use(middlewares.EnrichSentry())
	}

	return app
}
