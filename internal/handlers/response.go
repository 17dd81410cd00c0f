package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"go301/internal/redirects"
)

// respondSuccess returns a 200 response carrying the mutation result.
func respondSuccess(c fiber.Ctx, data fiber.Map) error {
	data["success"] = true
	return c.JSON(data)
}

// respondFailure returns a failure response with a human-readable message.
// Domain errors never cross this boundary as raw errors.
func respondFailure(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// respondError maps a repository error onto an HTTP status and message.
func respondError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, redirects.ErrValidation):
		return respondFailure(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, redirects.ErrDuplicate):
		return respondFailure(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, redirects.ErrLoop):
		return respondFailure(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, redirects.ErrNotFound):
		return respondFailure(c, fiber.StatusNotFound, err.Error())
	default:
		return respondFailure(c, fiber.StatusInternalServerError, "there was an error saving the redirect")
	}
}
