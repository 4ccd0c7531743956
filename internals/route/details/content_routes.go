// file: internals/route/details/content_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	contentController "centrotreino_backend/internals/features/content/controller"
	contentRoute "centrotreino_backend/internals/features/content/route"
	contentsvc "centrotreino_backend/internals/features/content/service"
)

func ContentRoutes(content fiber.Router, store *contentsvc.Store) {
	contentRoute.ContentRoutes(content, contentController.NewContentController(store))
}
