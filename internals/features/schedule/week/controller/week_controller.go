// file: internals/features/schedule/week/controller/week_controller.go
package controller

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"centrotreino_backend/internals/features/schedule/week"
	helper "centrotreino_backend/internals/helpers"
)

type WeekController struct {
	Week *week.Aggregator
	// MaxWait bounds how long a request waits for days still loading.
	MaxWait time.Duration
	Now     func() time.Time
}

func NewWeekController(agg *week.Aggregator, maxWait time.Duration) *WeekController {
	if maxWait <= 0 {
		maxWait = 20 * time.Second
	}
	return &WeekController{Week: agg, MaxWait: maxWait, Now: time.Now}
}

type weekQuery struct {
	Refresh bool `query:"refresh"`
}

func (ctl *WeekController) load(c *fiber.Ctx) (week.State, error) {
	var q weekQuery
	if err := c.QueryParser(&q); err != nil {
		return week.State{}, fiber.NewError(fiber.StatusBadRequest, "refresh must be a boolean")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), ctl.MaxWait)
	defer cancel()

	var (
		st  week.State
		err error
	)
	if q.Refresh {
		st, err = ctl.Week.Reload(ctx)
	} else {
		st, err = ctl.Week.Load(ctx)
	}
	if err != nil {
		// days still pending are reported as loading
		log.Printf("[WARN] reqid=%v week schedule not settled: %v", c.Locals("reqid"), err)
	}
	if st.IsError {
		log.Printf("[WARN] reqid=%v week schedule partial failure: %s", c.Locals("reqid"), st.Error)
	}
	return st, nil
}

/* =========================
   GET /schedule/week
   ========================= */

// Get always answers 200: a failed day is reported in the state and never
// hides the days that loaded.
func (ctl *WeekController) Get(c *fiber.Ctx) error {
	st, err := ctl.load(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	helper.SetNoStore(c)
	return c.Status(fiber.StatusOK).JSON(st)
}

/* =========================
   GET /schedule/week.ics
   ========================= */

func (ctl *WeekController) Calendar(c *fiber.Ctx) error {
	st, err := ctl.load(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	body := week.Calendar(st, ctl.Week.Location(), c.Hostname(), ctl.Now())

	helper.SetSharedCache(c, 300, 600)
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="aulas.ics"`)
	return c.Status(fiber.StatusOK).SendString(body)
}
