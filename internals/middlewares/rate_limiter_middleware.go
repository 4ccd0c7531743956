package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "centrotreino_backend/internals/helpers"
)

// GlobalRateLimiter: per IP, max requests per minute
func GlobalRateLimiter(max int) fiber.Handler {
	if max <= 0 {
		max = 60
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			helper.SetNoStore(c)
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.", "")
		},
	})
}

// RefreshRateLimiter is stricter: a forced refresh always hits the booking system.
func RefreshRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Query("refresh") != "true"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			helper.SetNoStore(c)
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many refresh requests. Try again in a minute.", "")
		},
	})
}
