package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts unlock, lock and status. The router must already
// run LoadSession.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/unlock", func(c *fiber.Ctx) error {
		var req UnlockRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}

		session, err := svc.Unlock(c.Context(), req.Password)
		switch {
		case errors.Is(err, ErrPasswordRequired):
			return fiber.NewError(fiber.StatusUnauthorized, "Enter the admin password.")
		case errors.Is(err, ErrIncorrectPassword):
			return fiber.NewError(fiber.StatusUnauthorized, "Locked. Incorrect password.")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    session.Token,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HTTPOnly: true,
			Secure:   c.Protocol() == "https",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(fiber.Map{"unlocked": true, "message": "Unlocked.", "session": session})
	})

	r.Post("/lock", func(c *fiber.Ctx) error {
		err := svc.Lock(c.Context(), sessionToken(c))
		c.ClearCookie(CookieName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"unlocked": false, "message": "Locked."})
	})

	r.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"unlocked": IsAdmin(c)})
	})
}
