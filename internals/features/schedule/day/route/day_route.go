// file: internals/features/schedule/day/route/day_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"centrotreino_backend/internals/features/schedule/day/controller"
)

// DayRoutes mounts the day endpoint on its current path and on the path the
// old frontend still calls.
func DayRoutes(schedule fiber.Router, legacy fiber.Router, ctl *controller.DayController) {
	schedule.Get("/day", ctl.Get)
	if legacy != nil {
		legacy.Get("/classes", ctl.Get)
	}
}
