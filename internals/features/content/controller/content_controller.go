// file: internals/features/content/controller/content_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"centrotreino_backend/internals/features/content/service"
	helper "centrotreino_backend/internals/helpers"
)

type ContentController struct {
	Store *service.Store
}

func NewContentController(store *service.Store) *ContentController {
	return &ContentController{Store: store}
}

func (ctl *ContentController) fail(c *fiber.Ctx, name string, err error) error {
	helper.SetNoStore(c)
	switch {
	case errors.Is(err, service.ErrUnknownContent), errors.Is(err, service.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Content not found", err.Error())
	default:
		log.Printf("[ERROR] reqid=%v content %s: %v", c.Locals("reqid"), name, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load content", "")
	}
}

// GET /content/singletons/:name
func (ctl *ContentController) GetSingleton(c *fiber.Ctx) error {
	name := c.Params("name")
	rec, err := ctl.Store.Singleton(name)
	if err != nil {
		return ctl.fail(c, name, err)
	}
	helper.SetSharedCache(c, 300, 600)
	return helper.JsonOK(c, "ok", rec)
}

// GET /content/collections/:name
func (ctl *ContentController) ListCollection(c *fiber.Ctx) error {
	name := c.Params("name")
	recs, err := ctl.Store.Collection(name)
	if err != nil {
		return ctl.fail(c, name, err)
	}
	helper.SetSharedCache(c, 300, 600)
	return helper.JsonList(c, "ok", recs)
}
