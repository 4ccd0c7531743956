// file: internals/features/schedule/day/controller/day_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"centrotreino_backend/internals/features/schedule/day/dto"
	"centrotreino_backend/internals/features/schedule/day/service"
	"centrotreino_backend/internals/features/schedule/regybox"
	helper "centrotreino_backend/internals/helpers"
)

const (
	// shared caches may serve a day for 5 minutes, then stale for 10 more
	sharedMaxAge         = 300
	staleWhileRevalidate = 600
)

/* =========================
   Controller & Constructor
   ========================= */

type DayController struct {
	Service  *service.DayService
	Validate *validator.Validate
	Now      func() time.Time
}

func NewDayController(svc *service.DayService, v *validator.Validate) *DayController {
	if v == nil {
		v = validator.New()
	}
	return &DayController{Service: svc, Validate: v, Now: time.Now}
}

/* =========================
   GET /schedule/day?date=YYYY-MM-DD
   ========================= */

func (ctl *DayController) Get(c *fiber.Ctx) error {
	var q dto.DayQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query", err.Error())
	}
	q.Date = strings.TrimSpace(q.Date)
	if err := ctl.Validate.Struct(q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date", "date must be YYYY-MM-DD")
	}

	date := q.Date
	if date == "" {
		date = ctl.Now().UTC().Format(dto.DateLayout)
	}

	day, warnings, err := ctl.Service.GetDay(c.UserContext(), date)
	for _, w := range warnings {
		log.Printf("[WARN] reqid=%v schedule %s skipped/flagged slot %s", c.Locals("reqid"), date, w)
	}
	if err != nil {
		return ctl.fail(c, date, err)
	}

	helper.SetSharedCache(c, sharedMaxAge, staleWhileRevalidate)
	return c.Status(fiber.StatusOK).JSON(day)
}

func (ctl *DayController) fail(c *fiber.Ctx, date string, err error) error {
	helper.SetNoStore(c)

	var (
		cfgErr   *regybox.ConfigurationError
		authErr  *regybox.UpstreamAuthError
		fetchErr *regybox.UpstreamFetchError
	)
	switch {
	case errors.As(err, &cfgErr):
		log.Printf("[ERROR] schedule %s: %v", date, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Schedule integration not configured", err.Error())
	case errors.As(err, &authErr):
		log.Printf("[ERROR] schedule %s: login: %v", date, err)
		return helper.JsonError(c, fiber.StatusUnauthorized, "Authentication failed", err.Error())
	case errors.As(err, &fetchErr):
		log.Printf("[ERROR] schedule %s: listing: %v", date, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch classes", err.Error())
	default:
		log.Printf("[ERROR] schedule %s: %v", date, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error", err.Error())
	}
}
