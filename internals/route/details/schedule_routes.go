// file: internals/route/details/schedule_routes.go
package details

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	dayController "centrotreino_backend/internals/features/schedule/day/controller"
	dayRoute "centrotreino_backend/internals/features/schedule/day/route"
	daysvc "centrotreino_backend/internals/features/schedule/day/service"
	"centrotreino_backend/internals/features/schedule/week"
	weekController "centrotreino_backend/internals/features/schedule/week/controller"
	weekRoute "centrotreino_backend/internals/features/schedule/week/route"
	"centrotreino_backend/internals/middlewares"
)

func ScheduleRoutes(schedule, legacy fiber.Router, day *daysvc.DayService, agg *week.Aggregator, v *validator.Validate, maxWait time.Duration) {
	dayRoute.DayRoutes(schedule, legacy, dayController.NewDayController(day, v))

	weekGroup := schedule.Group("", middlewares.RefreshRateLimiter())
	weekRoute.WeekRoutes(weekGroup, weekController.NewWeekController(agg, maxWait))
}
