package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ensureSID returns the browser session id, issuing a new cookie when absent.
func ensureSID(c *fiber.Ctx) string {
	if sid, ok := c.Locals("sid").(string); ok && sid != "" {
		return sid
	}
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	c.Locals("sid", sid)
	return sid
}

func queryGetter(c *fiber.Ctx) func(string) string {
	return func(k string) string { return c.Query(k) }
}

func formGetter(c *fiber.Ctx) func(string) string {
	return func(k string) string { return c.FormValue(k) }
}
