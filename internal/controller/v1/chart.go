package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cachectrl"
	"poligrama.dev/backend/internal/pkg/flog"
	"poligrama.dev/backend/internal/pkg/middlewares"
	"poligrama.dev/backend/internal/render"
	"poligrama.dev/backend/internal/server/svr"
	"poligrama.dev/backend/internal/service"
)

const placeholderHeader = "X-Poligrama-Placeholder"

type Chart struct {
	fx.In

	ChartService *service.Chart
	SheetService *service.Sheet
}

func RegisterChart(v1 *svr.V1, c Chart) {
	v1.Get("/charts/types", c.GetTypes)
	v1.Post("/charts/frequencies", middlewares.InjectValidBody[model.RenderRequest](), c.PostFrequencies)
	v1.Post("/charts/render", middlewares.Accepts(constant.ContentTypeSVG), middlewares.InjectValidBody[model.RenderRequest](), c.PostRender)
	v1.Post("/charts/batch", middlewares.InjectValidBody[model.BatchRequest](), c.PostBatch)
}

func (c *Chart) GetTypes(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"types":    render.Types(),
		"canvases": render.Canvases,
	})
}

func (c *Chart) PostFrequencies(ctx *fiber.Ctx) error {
	req := middlewares.Body[model.RenderRequest](ctx)

	preview, err := c.SheetService.Frequencies(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(preview)
}

func (c *Chart) PostRender(ctx *fiber.Ctx) error {
	req := middlewares.Body[model.RenderRequest](ctx)

	r, err := c.ChartService.Render(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	if r.Placeholder {
		ctx.Set(placeholderHeader, "1")
	}
	cachectrl.OptInPrivate(ctx, constant.RenderCacheControlMaxAge)
	ctx.Set(fiber.HeaderContentType, constant.ContentTypeSVG)
	return ctx.SendString(r.SVG)
}

func (c *Chart) PostBatch(ctx *fiber.Ctx) error {
	req := middlewares.Body[model.BatchRequest](ctx)

	rendered, err := c.ChartService.RenderBatch(ctx.UserContext(), req.Requests)
	if err != nil {
		return err
	}

	flog.DebugFrom(ctx).
		Str("evt.name", "chart.batch").
		Int("count", len(rendered)).
		Msg("rendered chart batch")

	return ctx.JSON(fiber.Map{
		"svgs": lo.Map(rendered, func(r *service.Rendered, _ int) string {
			return r.SVG
		}),
		"charts": rendered,
	})
}
