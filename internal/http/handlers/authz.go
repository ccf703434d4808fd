package handlers

import (
	"net/url"

	applog "fundraiser/internal/log"
	"fundraiser/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser is the route access guard: anonymous sessions are sent to
// the login page and come back afterwards.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		login := "/login?back=" + url.QueryEscape(c.OriginalURL())
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect(login)
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			applog.Security(c, "access.denied", map[string]any{"sid": sid})
			return c.Redirect(login)
		}
		c.Locals("user", u)
		return c.Next()
	}
}
