// file: internals/middlewares/setup.go
package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"centrotreino_backend/internals/configs"
	"centrotreino_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain. Rate limiting is per route
// group, see route.SetupRoutes.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(cfg.UpstreamTimeout*2 + 5*time.Second))
	app.Use(logger.LoggerMiddleware(cfg.ScheduleTimezone))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
}
