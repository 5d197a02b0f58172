package notify

import (
	"errors"

	"backend-teamugly/internal/ride"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, adminMiddleware fiber.Handler) {
	r.Get("/rides/:id/notify", adminMiddleware, func(c *fiber.Ctx) error {
		id, err := ride.ParseID(c.Params("id"))
		if err != nil {
			return err
		}
		n, err := svc.Prepare(c.Context(), id)
		if errors.Is(err, ride.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Select a ride.")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(n)
	})
}
