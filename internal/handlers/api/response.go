package api

import (
	"github.com/gofiber/fiber/v3"

	"toxshield/internal/models"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": models.StatusOK,
		"data":   data,
	})
}

// jsonCreated is jsonSuccess with a 201 status.
func jsonCreated(c fiber.Ctx, data any) error {
	c.Status(fiber.StatusCreated)
	return jsonSuccess(c, data)
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": models.StatusError,
		"error":  message,
	})
}
