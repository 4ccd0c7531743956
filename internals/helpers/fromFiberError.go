package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError turns an error (usually *fiber.Error) into the standard JSON
// error body. Anything else becomes a 500 with the error text in details.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message, "")
	}
	return JsonError(c, fiber.StatusInternalServerError, "Internal server error", err.Error())
}

// ErrorHandler is meant for fiber.Config so every error leaves with the same shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
