package handlers

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"fundraiser/internal/api"
	"fundraiser/internal/domain"
	"fundraiser/internal/forms"
	applog "fundraiser/internal/log"
	"fundraiser/internal/modal"
	"fundraiser/internal/pagination"
	"fundraiser/internal/services"
	"fundraiser/internal/validate"
)

const listPath = "/sale-items"

// SaleItemClient is the part of the REST client the views need.
type SaleItemClient interface {
	SaleItemFinder
	services.SaleItemQuerier
	services.SaleItemSaver
	Delete(ctx context.Context, id int64) error
}

type SaleItemHandler struct {
	Items  SaleItemClient
	Editor *services.SaleItemEditor
	Modals *modal.Host
}

func (h *SaleItemHandler) List(c *fiber.Ctx) error {
	st := pagination.FromQuery(queryGetter(c), pagination.DefaultSort)
	page, err := h.Items.Query(c.UserContext(), st.RequestOptions())
	if err != nil {
		applog.Error(c, "saleitem.list", err, nil)
		return err
	}
	st.Links = page.Links
	return render(c, "sale-items/list", fiber.Map{
		"Items":      page.Items,
		"State":      st,
		"Base":       listPath,
		"TotalCount": page.TotalCount,
		"Deleted":    c.Query("deleted") == "1",
		"Back":       c.OriginalURL(),
	})
}

func (h *SaleItemHandler) Detail(c *fiber.Ctx) error {
	item, ok, err := ResolveSaleItem(c, h.Items)
	if err != nil || !ok {
		return err
	}
	return render(c, "sale-items/detail", fiber.Map{"Item": *item, "Back": validate.Back(c.Query("back"), listPath)})
}

// Image serves the decoded image payload under a file name derived from the item name.
func (h *SaleItemHandler) Image(c *fiber.Ctx) error {
	item, ok, err := ResolveSaleItem(c, h.Items)
	if err != nil || !ok {
		return err
	}
	if len(item.Image) == 0 {
		return notFound(c, "This item has no image")
	}
	mt := mimetype.Detect(item.Image)
	ct := item.ImageContentType
	if ct == "" || ct == "unknown" {
		ct = mt.String()
	}
	name := slug.Make(item.Name)
	if name == "" {
		name = "sale-item-" + strconv.FormatInt(api.Identifier(item), 10)
	}
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+mt.Extension()+`"`)
	return c.Send(item.Image)
}

// Edit shows the create form (no id) or the edit form for a resolved entity.
func (h *SaleItemHandler) Edit(c *fiber.Ctx) error {
	item, ok, err := ResolveSaleItem(c, h.Items)
	if err != nil || !ok {
		return err
	}
	v := services.NewUpdateView(ensureSID(c), item)
	return h.renderForm(c, v, nil, validate.Back(c.Query("back"), listPath))
}

func (h *SaleItemHandler) Save(c *fiber.Ctx) error {
	item, ok, err := ResolveSaleItem(c, h.Items)
	if err != nil || !ok {
		return err
	}
	v := services.NewUpdateView(ensureSID(c), item)
	back := validate.Back(c.FormValue("back"), listPath)

	v.Form.Bind(formGetter(c))
	if c.FormValue("clearImage") == "1" {
		v.Form.ClearImage()
	}
	if fh, ferr := c.FormFile("image"); ferr == nil {
		h.Editor.SetFileData(v, fh, true)
	}

	if errs := v.Form.Validate(); errs != nil {
		fields := make([]string, 0, len(errs))
		for k := range errs {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		applog.Security(c, "validation.fail", map[string]any{"fields": fields})
		c.Status(fiber.StatusBadRequest)
		return h.renderForm(c, v, errs, back)
	}

	h.Editor.Save(c.UserContext(), v)
	if v.Navigate {
		applog.Audit(c, "saleitem.saved", map[string]any{"id": api.Identifier(v.SaleItem)})
		return c.Redirect(back)
	}
	applog.Error(c, "saleitem.save", v.Err, nil)
	c.Status(saveFailureStatus(v.Err))
	return h.renderForm(c, v, nil, back)
}

// saveFailureStatus passes a backend rejection (4xx) through; transport
// errors and backend faults answer 502.
func saveFailureStatus(err error) int {
	var se *api.StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
		return se.Code
	}
	return fiber.StatusBadGateway
}

func (h *SaleItemHandler) renderForm(c *fiber.Ctx, v *services.UpdateView, errs forms.FieldErrors, back string) error {
	action := listPath + "/new"
	idText := ""
	if v.Form.ID != nil {
		idText = strconv.FormatInt(*v.Form.ID, 10)
		action = listPath + "/" + idText + "/edit"
	}
	return render(c, "sale-items/update", fiber.Map{
		"Form":     v.Form,
		"FormID":   idText,
		"Errors":   errs,
		"Types":    domain.ItemTypes(),
		"Action":   action,
		"Back":     back,
		"IsSaving": v.IsSaving,
		"Preview":  v.Form.SaleItem(),
	})
}

// DeleteDialog opens the confirmation dialog for a resolved entity.
func (h *SaleItemHandler) DeleteDialog(c *fiber.Ctx) error {
	item, ok, err := ResolveSaleItem(c, h.Items)
	if err != nil || !ok {
		return err
	}
	sid := ensureSID(c)
	ref := h.Modals.Open(sid, modal.DeleteDialog, *item)
	ref.OnClose(func(reason string) {
		applog.Audit(nil, "saleitem.delete.dialog.closed", map[string]any{"id": api.Identifier(item), "reason": reason})
	})
	return render(c, "sale-items/delete", fiber.Map{"Item": *item, "Back": validate.Back(c.Query("back"), listPath)})
}

func (h *SaleItemHandler) ConfirmDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return notFound(c, "This item is no longer available")
	}
	sid := ensureSID(c)
	back := validate.Back(c.FormValue("back"), listPath)

	ref, open := h.Modals.Active(sid, modal.DeleteDialog)
	if !open {
		ref = h.Modals.Open(sid, modal.DeleteDialog, id)
	}
	if err := h.Items.Delete(c.UserContext(), id); err != nil {
		ref.Dismiss()
		applog.Error(c, "saleitem.delete", err, map[string]any{"id": id})
		return err
	}
	applog.Audit(c, "saleitem.deleted", map[string]any{"id": id})
	ref.Close(modal.ItemDeletedEvent)

	if reason, closed := ref.Result(); closed && reason == modal.ItemDeletedEvent {
		return c.Redirect(withParam(back, "deleted", "1"))
	}
	return c.Redirect(back)
}

func (h *SaleItemHandler) CancelDelete(c *fiber.Ctx) error {
	if ref, ok := h.Modals.Active(ensureSID(c), modal.DeleteDialog); ok {
		ref.Dismiss()
	}
	return c.Redirect(validate.Back(c.FormValue("back"), listPath))
}

func withParam(u, k, v string) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + k + "=" + v
}
