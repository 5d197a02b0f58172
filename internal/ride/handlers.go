package ride

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, adminMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		rides, err := svc.ListRides(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rides)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := ParseID(c.Params("id"))
		if err != nil {
			return err
		}
		ride, err := svc.GetRide(c.Context(), id)
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Select a ride.")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(ride)
	})

	r.Post("/", adminMiddleware, func(c *fiber.Ctx) error {
		var req Ride
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		ride, err := svc.CreateRide(c.Context(), req)
		switch {
		case errors.Is(err, ErrNameRequired):
			return fiber.NewError(fiber.StatusBadRequest, "Enter a ride name.")
		case errors.Is(err, ErrInvalidDate):
			return fiber.NewError(fiber.StatusBadRequest, "Enter the ride date as YYYY-MM-DD.")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ride":    ride,
			"message": fmt.Sprintf("Ride '%s' created successfully.", ride.Name),
		})
	})

	r.Delete("/:id", adminMiddleware, func(c *fiber.Ctx) error {
		id, err := ParseID(c.Params("id"))
		if err != nil {
			return err
		}
		err = svc.DeleteRide(c.Context(), id)
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "ride not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "Ride deleted."})
	})
}

// ParseID reads a ride id path parameter, answering 400 when malformed.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Select a ride.")
	}
	return id, nil
}
