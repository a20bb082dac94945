package sheets

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "poligrama.dev/backend/cmd/app/cli"
	"poligrama.dev/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	SheetService *service.Sheet
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "sheets",
		Usage: "list the sheets of a spreadsheet, or the columns of one sheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ref", Usage: "spreadsheet ID or URL", Required: true},
			&cli.StringFlag{Name: "sheet", Usage: "list the columns of this sheet"},
		},
		Action: func(c *cli.Context) error {
			deps, stop, err := cliapp.Deps[CommandDeps]()
			if err != nil {
				return err
			}
			defer stop()

			w := c.App.Writer
			ref := c.String("ref")
			if sheet := c.String("sheet"); sheet != "" {
				columns, err := deps.SheetService.Columns(c.Context, ref, sheet)
				if err != nil {
					return err
				}
				for i, col := range columns {
					fmt.Fprintf(w, "%d\t%s\n", i+1, col.Name)
				}
				return nil
			}

			sheets, err := deps.SheetService.List(c.Context, ref)
			if err != nil {
				return err
			}
			for _, s := range sheets {
				fmt.Fprintf(w, "%d\t%s\n", s.ID, s.Name)
			}
			return nil
		},
	}
}
