// file: internals/features/content/route/content_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"centrotreino_backend/internals/features/content/controller"
)

func ContentRoutes(content fiber.Router, ctl *controller.ContentController) {
	content.Get("/singletons/:name", ctl.GetSingleton)
	content.Get("/collections/:name", ctl.ListCollection)
}
