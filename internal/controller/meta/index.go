package meta

import (
	"github.com/gofiber/fiber/v2"

	"poligrama.dev/backend/internal/pkg/bininfo"
)

func RegisterIndex(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Poligrama API v1",
			"version": bininfo.Version,
			"@links": fiber.Map{
				"api":    "/api/v1",
				"health": "/api/_/health",
			},
		})
	})
}
