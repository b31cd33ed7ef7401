package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sithumisanilka/Technova/repository"
	"github.com/sithumisanilka/Technova/service"
)

// respondError maps service and repository errors onto HTTP statuses:
// validation and empty-cart -> 400, missing records -> 404, illegal state
// transitions -> 409, everything else -> 500.
func respondError(c *fiber.Ctx, err error) error {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": validation.Fields,
		})
	case errors.Is(err, service.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrNotCancellable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
