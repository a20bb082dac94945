package app

import (
	"time"

	"go.uber.org/fx"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/app/appcontext"
	"poligrama.dev/backend/internal/controller"
	"poligrama.dev/backend/internal/infra"
	"poligrama.dev/backend/internal/pkg/logger"
	"poligrama.dev/backend/internal/repo"
	"poligrama.dev/backend/internal/server"
	"poligrama.dev/backend/internal/service"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	return OptionsWithConfig(conf, additionalOpts...)
}

// OptionsWithConfig builds the graph around an already parsed configuration.
func OptionsWithConfig(conf *appconfig.Config, additionalOpts ...fx.Option) []fx.Option {
	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Infrastructures
		infra.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits: Keep those before controllers to ensure they are initialized
		// before controllers are registered as controllers are also fx#Invoke functions which
		// are called in the order of their registration.
		fx.Invoke(infra.SentryInit),

		// fx Extra Options
		fx.StartTimeout(5 * time.Second),
		// StopTimeout is not typically needed, since we're using fiber's Shutdown(),
		// in which fiber has its own IdleTimeout for controlling the shutdown timeout.
		// It acts as a countermeasure in case the fiber app is not properly shutting down.
		fx.StopTimeout(5 * time.Minute),
	}

	if conf.AppContext.Env == appcontext.EnvServer {
		baseOpts = append(baseOpts,
			// Servers
			server.Module(),

			// Controllers
			controller.Module(),
		)
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
