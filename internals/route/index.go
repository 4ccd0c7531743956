// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	contentsvc "centrotreino_backend/internals/features/content/service"
	daysvc "centrotreino_backend/internals/features/schedule/day/service"
	"centrotreino_backend/internals/features/schedule/week"
	"centrotreino_backend/internals/middlewares"
	routeDetails "centrotreino_backend/internals/route/details"

	"github.com/go-playground/validator/v10"
)

var startTime time.Time

// Deps is everything the routes need, built once in main.
type Deps struct {
	Day       *daysvc.DayService
	Week      *week.Aggregator
	Content   *contentsvc.Store
	Validate  *validator.Validate
	RateLimit int
	// WeekMaxWait bounds how long /schedule/week waits for pending days.
	WeekMaxWait time.Duration
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, d.Day)

	// ===================== GROUPS =====================
	limit := middlewares.GlobalRateLimiter(d.RateLimit)

	log.Println("[INFO] Setting up SCHEDULE group...")
	schedule := app.Group("/schedule", limit)

	// path used by older site builds
	legacy := app.Group("/api/regybox", limit)

	log.Println("[INFO] Setting up CONTENT group...")
	content := app.Group("/content", limit)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Schedule routes...")
	routeDetails.ScheduleRoutes(schedule, legacy, d.Day, d.Week, d.Validate, d.WeekMaxWait)

	log.Println("[INFO] Mounting Content routes...")
	routeDetails.ContentRoutes(content, d.Content)
}
