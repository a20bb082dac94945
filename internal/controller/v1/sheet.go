package v1

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"poligrama.dev/backend/internal/pkg/pgerr"
	"poligrama.dev/backend/internal/server/svr"
	"poligrama.dev/backend/internal/service"
	"poligrama.dev/backend/internal/util/rekuest"
)

type Sheet struct {
	fx.In

	SheetService *service.Sheet
}

func RegisterSheet(v1 *svr.V1, c Sheet) {
	v1.Get("/sheets/:ref", c.GetSheets)
	v1.Get("/sheets/:ref/:sheet/columns", c.GetColumns)
	v1.Get("/sheets/:ref/:sheet/grid", c.GetGrid)
}

// param reads a path parameter. References may be full spreadsheet URLs and
// arrive percent-encoded.
func param(ctx *fiber.Ctx, key string) (string, error) {
	v, err := url.PathUnescape(ctx.Params(key))
	if err != nil || v == "" {
		return "", pgerr.ErrInvalidReq.Msg("invalid or missing %s", key)
	}
	return v, nil
}

func (c *Sheet) GetSheets(ctx *fiber.Ctx) error {
	ref, err := param(ctx, "ref")
	if err != nil {
		return err
	}

	sheets, err := c.SheetService.List(ctx.UserContext(), ref)
	if err != nil {
		return err
	}

	return ctx.JSON(sheets)
}

func (c *Sheet) GetColumns(ctx *fiber.Ctx) error {
	ref, err := param(ctx, "ref")
	if err != nil {
		return err
	}
	sheet, err := param(ctx, "sheet")
	if err != nil {
		return err
	}

	columns, err := c.SheetService.Columns(ctx.UserContext(), ref, sheet)
	if err != nil {
		return err
	}

	return ctx.JSON(columns)
}

func (c *Sheet) GetGrid(ctx *fiber.Ctx) error {
	ref, err := param(ctx, "ref")
	if err != nil {
		return err
	}
	sheet, err := param(ctx, "sheet")
	if err != nil {
		return err
	}
	rng := ctx.Query("range")
	if rng != "" {
		if err := rekuest.ValidVar(ctx, rng, "cellrange"); err != nil {
			return err
		}
	}

	grid, err := c.SheetService.Grid(ctx.UserContext(), ref, sheet, rng)
	if err != nil {
		return err
	}

	return ctx.JSON(grid)
}
