package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	daysvc "centrotreino_backend/internals/features/schedule/day/service"
)

func BaseRoutes(app *fiber.App, day *daysvc.DayService) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Class schedule service is running 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		configured := day != nil && day.Configured()
		integration := "configured"
		if !configured {
			integration = "missing credentials"
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":         "OK",
			"schedule":       integration,
			"configured":     configured,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
