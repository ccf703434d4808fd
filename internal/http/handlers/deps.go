package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fundraiser/internal/events"
	"fundraiser/internal/modal"
	"fundraiser/internal/services"
)

type Deps struct {
	SaleItemHandler *SaleItemHandler
	ShopHandler     *ShopHandler
	AuthHandler     *AuthHandler

	Auth   *services.AuthService
	Shop   *services.ShopService
	Events *events.Manager
	Alerts *events.AlertStore
	Modals *modal.Host
}

func NewDeps(items SaleItemClient, auth *services.AuthService) *Deps {
	bus := events.NewManager()
	alerts := events.NewAlertStore(bus)
	host := modal.NewHost()
	shop := services.NewShopService(items)
	shop.OnForget(host.Forget)
	shop.OnForget(alerts.Forget)
	editor := services.NewSaleItemEditor(items, bus)

	return &Deps{
		SaleItemHandler: &SaleItemHandler{Items: items, Editor: editor, Modals: host},
		ShopHandler:     &ShopHandler{Shop: shop, Modals: host, Events: bus},
		AuthHandler:     &AuthHandler{Auth: auth, Shop: shop},
		Auth:            auth,
		Shop:            shop,
		Events:          bus,
		Alerts:          alerts,
		Modals:          host,
	}
}

// Register mounts the sale-item routes behind the route guard. loginGuards
// run in front of the login POST (throttling).
func Register(app *fiber.App, d *Deps, loginGuards ...fiber.Handler) {
	app.Use(WithAlerts(d.Alerts))

	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", append(loginGuards, d.AuthHandler.Login)...)
	app.Post("/logout", d.AuthHandler.Logout)
	app.Get("/404", func(c *fiber.Ctx) error {
		return notFound(c, "This item is no longer available")
	})

	guard := RequireUser(d.Auth)
	app.Get("/", guard, func(c *fiber.Ctx) error { return c.Redirect(shopPath) })

	si := app.Group("/sale-items", guard)
	si.Get("/", d.SaleItemHandler.List)
	si.Get("/new", d.SaleItemHandler.Edit)
	si.Post("/new", d.SaleItemHandler.Save)

	si.Get("/shop", d.ShopHandler.View)
	si.Post("/shop/basket", d.ShopHandler.AddToBasket)
	si.Post("/shop/reset", d.ShopHandler.Reset)
	si.Get("/checkout", d.ShopHandler.Checkout)
	si.Post("/checkout/dismiss", d.ShopHandler.Dismiss)

	si.Get("/:id/view", d.SaleItemHandler.Detail)
	si.Get("/:id/image", d.SaleItemHandler.Image)
	si.Get("/:id/edit", d.SaleItemHandler.Edit)
	si.Post("/:id/edit", d.SaleItemHandler.Save)
	si.Get("/:id/delete", d.SaleItemHandler.DeleteDialog)
	si.Post("/:id/delete", d.SaleItemHandler.ConfirmDelete)
	si.Post("/:id/delete/cancel", d.SaleItemHandler.CancelDelete)
}
