package middleware

import (
	"github.com/criadoresdevideo/videoclub/internal/pkg/constants"
	icuser "github.com/criadoresdevideo/videoclub/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	v := c.Locals(icuser.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Redirect(constants.LoginRoute, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireSubscriber ensures a logged-in session whose profile carries the
// subscriber flag; non-subscribers land on the pricing page.
func RequireSubscriber(c *fiber.Ctx) error {
	userCtx := icuser.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect(constants.LoginRoute, fiber.StatusSeeOther)
	}
	if !userCtx.IsSubscriber {
		return c.Redirect(constants.SubscriptionRoute, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	v := c.Locals(icuser.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAPISubscriber returns JSON 403 when the session user is not a subscriber.
func RequireAPISubscriber(c *fiber.Ctx) error {
	userCtx := icuser.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !userCtx.IsSubscriber {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "subscription required",
		})
	}
	return c.Next()
}
