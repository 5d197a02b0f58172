package signup

import (
	"errors"

	"backend-teamugly/internal/ride"

	"github.com/gofiber/fiber/v2"
)

const (
	msgEmailSent    = "RSVP received. A confirmation email has been sent."
	msgEmailFailed  = "RSVP saved, but email could not be sent from the server."
	msgCancelled    = "Your RSVP has been cancelled."
	msgNotFound     = "Not found or already cancelled."
	msgLinkNotFound = "Cancel link already used or not found."
	msgPasteCode    = "Please paste your cancellation code."
)

// RegisterRoutes mounts the participant endpoints on the application root.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/rides/:id/signups", func(c *fiber.Ctx) error {
		rideID, err := ride.ParseID(c.Params("id"))
		if err != nil {
			return err
		}
		var in Input
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}

		res, err := svc.Signup(c.Context(), rideID, in)
		if err != nil {
			return signupError(err)
		}

		message := msgEmailSent
		if !res.EmailSent {
			message = msgEmailFailed + " Your cancellation code is: " + res.Signup.CancelToken
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":      message,
			"email_sent":   res.EmailSent,
			"cancel_token": res.Signup.CancelToken,
			"cancel_link":  res.CancelLink,
			"signup":       res.Signup,
		})
	})

	r.Post("/cancel", func(c *fiber.Ctx) error {
		var body struct {
			Token string `json:"token" form:"token"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		return cancel(c, svc, body.Token, msgNotFound)
	})

	r.Get("/cancel", func(c *fiber.Ctx) error {
		return cancel(c, svc, c.Query("cancel"), msgLinkNotFound)
	})

	// e-mailed links point at the application root
	r.Get("/", func(c *fiber.Ctx) error {
		if c.Query("cancel") == "" {
			return c.Next()
		}
		return cancel(c, svc, c.Query("cancel"), msgLinkNotFound)
	})

	r.Get("/roster/public", func(c *fiber.Ctx) error {
		entries, err := svc.PublicRoster(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	})
}

func cancel(c *fiber.Ctx, svc *Service, token, missMessage string) error {
	ok, err := svc.Cancel(c.Context(), token)
	if errors.Is(err, ErrTokenRequired) {
		return fiber.NewError(fiber.StatusBadRequest, msgPasteCode)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !ok {
		return c.JSON(fiber.Map{"cancelled": false, "message": missMessage})
	}
	return c.JSON(fiber.Map{"cancelled": true, "message": msgCancelled})
}

func signupError(err error) error {
	switch {
	case errors.Is(err, ErrNameRequired):
		return fiber.NewError(fiber.StatusBadRequest, "Please enter your full name.")
	case errors.Is(err, ErrInvalidEmail):
		return fiber.NewError(fiber.StatusBadRequest, "Please enter a valid email.")
	case errors.Is(err, ErrAcknowledgementRequired):
		return fiber.NewError(fiber.StatusBadRequest, "Please check the acknowledgement box.")
	case errors.Is(err, ride.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Select a ride.")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
