package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

// ok writes the success envelope every endpoint uses.
func ok(c *fiber.Ctx, status int, data fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range data {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// failErr maps service errors onto the API's status codes. Anything outside
// the taxonomy is a store failure: logged with detail, surfaced generically.
func failErr(c *fiber.Ctx, err error, action, generic string) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return fail(c, fiber.StatusBadRequest, ve.Message)
	}
	var nf *services.NotFoundError
	if errors.As(err, &nf) {
		return fail(c, fiber.StatusNotFound, nf.Error())
	}
	var ii *services.InsufficientInventoryError
	if errors.As(err, &ii) {
		return fail(c, fiber.StatusBadRequest, ii.Error())
	}
	applog.Error(c, action, err, nil)
	return fail(c, fiber.StatusInternalServerError, generic)
}
