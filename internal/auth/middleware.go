package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LoadSession resolves the caller's admin state for this request only. It never
// rejects; gated handlers decide what a locked caller sees.
func LoadSession(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unlocked := false
		if token := sessionToken(c); token != "" {
			if _, err := svc.Validate(c.Context(), token); err == nil {
				unlocked = true
			}
		}
		c.Locals(localsKey, unlocked)
		return c.Next()
	}
}

// RequireAdmin answers 401 unless LoadSession marked the request unlocked.
func RequireAdmin(c *fiber.Ctx) error {
	if !IsAdmin(c) {
		return fiber.NewError(fiber.StatusUnauthorized, "locked")
	}
	return c.Next()
}

func IsAdmin(c *fiber.Ctx) bool {
	unlocked, _ := c.Locals(localsKey).(bool)
	return unlocked
}

func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(CookieName); token != "" {
		return token
	}
	return bearerFromHeader(c.Get(fiber.HeaderAuthorization))
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
