package v1

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cachectrl"
	"poligrama.dev/backend/internal/pkg/fiberstore"
	"poligrama.dev/backend/internal/pkg/flog"
	"poligrama.dev/backend/internal/pkg/middlewares"
	"poligrama.dev/backend/internal/server/svr"
	"poligrama.dev/backend/internal/service"
)

type Queue struct {
	fx.In

	Config       *appconfig.Config
	Redis        *redis.Client
	RedSync      *redsync.Redsync
	ChartService *service.Chart
	QueueService *service.Queue
}

func RegisterQueue(v1 *svr.V1, c Queue) {
	v1.Get("/queue", c.GetQueue)
	v1.Post("/queue", c.idempotency(), middlewares.InjectValidBody[model.RenderRequest](), c.PostQueue)
	v1.Post("/queue/export", middlewares.Accepts(constant.ContentTypeZip), c.PostExport)
	v1.Delete("/queue/:id", c.DeleteChart)
	v1.Delete("/queue", c.DeleteQueue)
}

// idempotency shares replayed responses through redis when the queue lives
// there, so every instance answers a retried request the same way.
func (c *Queue) idempotency() fiber.Handler {
	conf := &middlewares.IdempotencyConfig{
		Lifetime:  constant.QueueIdempotencyLifetime,
		KeyHeader: constant.IdempotencyKeyHeader,
		KeepResponseHeaders: []string{
			fiber.HeaderContentType,
			fiber.HeaderContentLength,
		},
		Storage: fiberstore.NewMemory(),
	}
	if c.Config.QueueStore == appconfig.QueueStoreRedis {
		conf.Storage = fiberstore.NewRedis(c.Redis, constant.QueueIdempotencyRedisKeyPrefix)
		conf.RedSync = c.RedSync
	}
	return middlewares.Idempotency(conf)
}

// GetQueue lists the queued charts. Clients sending the slim header get
// the entries without their SVG markup.
func (c *Queue) GetQueue(ctx *fiber.Ctx) error {
	charts, err := c.QueueService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	cachectrl.OptOut(ctx)

	if ctx.Get(constant.SlimHeaderKey) != "" {
		charts = lo.Map(charts, func(ch model.SavedChart, _ int) model.SavedChart {
			ch.SVG = ""
			return ch
		})
	}

	return ctx.JSON(charts)
}

func (c *Queue) PostQueue(ctx *fiber.Ctx) error {
	req := middlewares.Body[model.RenderRequest](ctx)

	r, err := c.ChartService.Render(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	saved, err := c.QueueService.Add(ctx.UserContext(), r.Title, r.ChartType, r.SVG)
	if err != nil {
		return err
	}

	flog.InfoFrom(ctx).
		Str("evt.name", "queue.add").
		Str("id", saved.ID).
		Str("idempotencyKey", middlewares.IdempotencyKeyFrom(ctx)).
		Msg("chart added to export queue")

	return ctx.Status(fiber.StatusCreated).JSON(saved)
}

func (c *Queue) DeleteChart(ctx *fiber.Ctx) error {
	id, err := param(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.QueueService.Remove(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Queue) DeleteQueue(ctx *fiber.Ctx) error {
	if err := c.QueueService.Clear(ctx.UserContext()); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Queue) PostExport(ctx *fiber.Ctx) error {
	archive, err := c.QueueService.Export(ctx.UserContext())
	if err != nil {
		return err
	}

	flog.InfoFrom(ctx).
		Str("evt.name", "queue.export").
		Int("count", archive.Count).
		Str("key", archive.Key).
		Msg("export queue archived")

	ctx.Attachment(archive.Name)
	ctx.Set(fiber.HeaderContentType, constant.ContentTypeZip)
	return ctx.Send(archive.Content)
}
