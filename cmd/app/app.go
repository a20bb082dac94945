package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"poligrama.dev/backend/cmd/app/export"
	"poligrama.dev/backend/cmd/app/render"
	"poligrama.dev/backend/cmd/app/server"
	"poligrama.dev/backend/cmd/app/sheets"
	"poligrama.dev/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "poligrama",
		Description: "Poligrama backend: renders survey spreadsheets into SVG charts. Built with Go, fiber and go.uber.org/fx.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			render.Command(),
			sheets.Command(),
			export.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
