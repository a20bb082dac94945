package render

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "poligrama.dev/backend/cmd/app/cli"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	ChartService *service.Chart
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "render one chart described by a YAML request",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "request", Aliases: []string{"r"}, Usage: "YAML render request", Required: true},
			&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "SVG file to write", Value: "chart.svg"},
		},
		Action: func(c *cli.Context) error {
			var req model.RenderRequest
			if err := cliapp.ReadYAML(c.Path("request"), &req); err != nil {
				return err
			}

			deps, stop, err := cliapp.Deps[CommandDeps]()
			if err != nil {
				return err
			}
			defer stop()

			r, err := deps.ChartService.Render(c.Context, &req)
			if err != nil {
				return err
			}

			out := c.Path("out")
			if err := os.WriteFile(out, []byte(r.SVG), 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", out)
			}

			log.Info().
				Str("evt.name", "cli.render").
				Str("out", out).
				Bool("placeholder", r.Placeholder).
				Msg("chart rendered")
			return nil
		},
	}
}
