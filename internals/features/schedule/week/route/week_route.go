// file: internals/features/schedule/week/route/week_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"centrotreino_backend/internals/features/schedule/week/controller"
)

func WeekRoutes(schedule fiber.Router, ctl *controller.WeekController) {
	schedule.Get("/week", ctl.Get)
	schedule.Get("/week.ics", ctl.Calendar)
}
