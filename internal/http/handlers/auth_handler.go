package handlers

import (
	"time"

	"fundraiser/internal/log"
	"fundraiser/internal/services"
	"fundraiser/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
	Shop *services.ShopService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": "", "Back": validate.Back(c.Query("back"), "/")})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	back := validate.Back(c.FormValue("back"), "/")
	login, ok := validate.Login(c.FormValue("username"))
	pass := c.FormValue("password")
	if !ok || !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"login": login, "reason": "bad_format"})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": "Failed to sign in! Please check your credentials and try again.", "Back": back})
	}

	if _, err := h.Auth.Login(sid, login, pass); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"login": login})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": "Failed to sign in! Please check your credentials and try again.", "Back": back})
	}

	log.Audit(c, "auth.login.success", map[string]any{"login": login})
	return c.Redirect(back)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	if h.Shop != nil {
		h.Shop.Forget(sid)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/login")
}
