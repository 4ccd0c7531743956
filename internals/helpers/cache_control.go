package helper

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// SetSharedCache lets shared caches (CDN, proxies) keep the response for
// sMaxAge seconds and serve it stale for swr more while they revalidate.
func SetSharedCache(c *fiber.Ctx, sMaxAge, swr int) {
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", sMaxAge, swr))
}

func SetNoStore(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "no-store")
}
