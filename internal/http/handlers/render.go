package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"fundraiser/internal/api"
	"fundraiser/internal/datautil"
	"fundraiser/internal/domain"
	"fundraiser/internal/events"
)

// TemplateFuncs are the helpers every view may use.
func TemplateFuncs() map[string]any {
	return map[string]any{
		"itemID": func(it domain.SaleItem) int64 { return api.Identifier(&it) },
		"qty": func(it domain.SaleItem) string {
			if it.Quantity == nil {
				return ""
			}
			return strconv.Itoa(*it.Quantity)
		},
		"money":    func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
		"byteSize": datautil.ByteSize,
		"dataURL":  datautil.DataURL,
		"add":      func(a, b int) int { return a + b },
	}
}

func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	for name, fn := range TemplateFuncs() {
		engine.AddFunc(name, fn)
	}
	return engine
}

// WithAlerts makes the alert surface available to render.
func WithAlerts(store *events.AlertStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("alerts", store)
		return c.Next()
	}
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals, falling back to the cookie
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	if store, ok := c.Locals("alerts").(*events.AlertStore); ok && store != nil {
		data["Alerts"] = store.Take(ensureSID(c))
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}
