package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fundraiser/internal/events"
	applog "fundraiser/internal/log"
	"fundraiser/internal/modal"
	"fundraiser/internal/pagination"
	"fundraiser/internal/services"
	"fundraiser/internal/validate"
)

const shopPath = "/sale-items/shop"

type ShopHandler struct {
	Shop   *services.ShopService
	Modals *modal.Host
	Events *events.Manager
}

// View loads the page named by the URL into the session list.
func (h *ShopHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	st := pagination.FromQuery(queryGetter(c), pagination.DefaultSort)

	v, err := h.Shop.Load(c.UserContext(), sid, st)
	if err != nil {
		h.loadFailed(c, sid, err)
	}

	data := fiber.Map{
		"View":  v,
		"State": v.State,
		"Base":  shopPath,
		"Back":  c.OriginalURL(),
	}
	if v.State.HasMore() {
		data["NextURL"] = v.State.PageURL(shopPath, v.State.Page+1)
	}
	return render(c, "sale-items/shop", data)
}

// Reset starts over with an empty list and basket on page 1.
func (h *ShopHandler) Reset(c *fiber.Ctx) error {
	sid := ensureSID(c)
	st := pagination.FromQuery(formGetter(c), pagination.DefaultSort)
	if _, err := h.Shop.Reset(c.UserContext(), sid, st); err != nil {
		h.loadFailed(c, sid, err)
	}
	applog.Info(c, "shop.reset", nil)
	return c.Redirect(shopPath)
}

func (h *ShopHandler) loadFailed(c *fiber.Ctx, sid string, err error) {
	applog.Error(c, "shop.load", err, nil)
	h.Events.Broadcast(events.Event{
		Name:    events.ErrorEvent,
		Session: sid,
		Content: events.AlertError{Message: "Sale items could not be loaded."},
	})
}

// AddToBasket is the click on an item image.
func (h *ShopHandler) AddToBasket(c *fiber.Ctx) error {
	sid := ensureSID(c)
	back := validate.Back(c.FormValue("back"), shopPath)
	id, ok := validate.ID(c.FormValue("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid id")
	}
	added, err := h.Shop.AddToBasket(sid, id)
	if errors.Is(err, services.ErrItemNotLoaded) {
		return notFound(c, "This item is no longer available")
	}
	if err != nil {
		return err
	}
	applog.Info(c, "basket.add", map[string]any{"id": id, "added": added})
	return c.Redirect(back)
}

// Checkout shows the session basket; cashPaid in the query computes the change.
func (h *ShopHandler) Checkout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	ref := h.Modals.Open(sid, modal.Checkout, h.Shop.Checkout(sid))
	basket, _ := ref.Data.(*services.Basket)
	cv := services.NewCheckoutView(basket)

	if raw := c.Query("cashPaid"); raw != "" {
		cash, ok := validate.Amount(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "cashPaid"})
			c.Status(fiber.StatusBadRequest)
			return render(c, "sale-items/checkout", fiber.Map{"View": cv, "Items": basket.Items(), "CashErr": "Enter a valid amount."})
		}
		cv.Pay(cash)
	}
	return render(c, "sale-items/checkout", fiber.Map{"View": cv, "Items": basket.Items(), "Paid": c.Query("cashPaid") != ""})
}

func (h *ShopHandler) Dismiss(c *fiber.Ctx) error {
	if ref, ok := h.Modals.Active(ensureSID(c), modal.Checkout); ok {
		ref.Dismiss()
	}
	return c.Redirect(shopPath)
}
