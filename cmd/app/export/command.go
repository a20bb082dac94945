package export

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "poligrama.dev/backend/cmd/app/cli"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	ChartService  *service.Chart
	ExportService *service.Export
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "render a YAML batch and write every chart plus their zip archive to a directory",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "request", Aliases: []string{"r"}, Usage: "YAML batch request", Required: true},
			&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Value: "export"},
		},
		Action: func(c *cli.Context) error {
			var batch model.BatchRequest
			if err := cliapp.ReadYAML(c.Path("request"), &batch); err != nil {
				return err
			}

			deps, stop, err := cliapp.Deps[CommandDeps]()
			if err != nil {
				return err
			}
			defer stop()

			rendered, err := deps.ChartService.RenderBatch(c.Context, batch.Requests)
			if err != nil {
				return err
			}

			now := time.Now()
			charts := lo.Map(rendered, func(r *service.Rendered, _ int) model.SavedChart {
				return model.SavedChart{
					Title:     r.Title,
					ChartType: r.ChartType,
					SVG:       r.SVG,
					CreatedAt: now,
				}
			})

			paths, err := deps.ExportService.ExportToDir(c.Context, charts, c.Path("out"))
			if err != nil {
				return err
			}

			log.Info().
				Str("evt.name", "cli.export").
				Strs("files", paths).
				Msg("export written")
			return nil
		},
	}
}
