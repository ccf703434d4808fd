// Package forms adapts a SaleItem to the editable field set of the
// create/edit view. Required fields are enforced here and nowhere else on
// the client side.
package forms

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"fundraiser/internal/domain"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	return val
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

// SaleItemForm mirrors the entity. ID is disabled: it is carried from the
// defaults or the loaded entity and never read from user input.
type SaleItemForm struct {
	ID               *int64   `form:"id"`
	Name             string   `form:"name" validate:"required"`
	Price            *float64 `form:"price" validate:"required"`
	Quantity         *int     `form:"quantity"`
	Type             string   `form:"type" validate:"required,oneof=SECOND_HAND_ITEM EDIBLE"`
	Image            []byte   `form:"image" validate:"required"`
	ImageContentType string   `form:"imageContentType"`

	PriceText    string `form:"-"`
	QuantityText string `form:"-"`

	parseErrs FieldErrors
}

// NewSaleItemForm builds the form for item; nil means create mode.
func NewSaleItemForm(item *domain.SaleItem) *SaleItemForm {
	f := &SaleItemForm{}
	f.Reset(item)
	return f
}

// Reset merges item over the defaults ({id: nil}).
func (f *SaleItemForm) Reset(item *domain.SaleItem) {
	*f = SaleItemForm{}
	if item == nil {
		return
	}
	if item.ID != nil {
		id := *item.ID
		f.ID = &id
	}
	f.Name = item.Name
	price := item.Price
	f.Price = &price
	f.PriceText = strconv.FormatFloat(price, 'f', -1, 64)
	if item.Quantity != nil {
		q := *item.Quantity
		f.Quantity = &q
		f.QuantityText = strconv.Itoa(q)
	}
	f.Type = string(item.Type)
	f.Image = item.Image
	f.ImageContentType = item.ImageContentType
}

// Bind copies the user-editable text fields from a request. The image is
// set separately with SetFile since it arrives as an upload.
func (f *SaleItemForm) Bind(get func(key string) string) {
	f.parseErrs = FieldErrors{}
	f.Name = strings.TrimSpace(get("name"))
	f.Type = strings.TrimSpace(get("type"))

	f.PriceText = strings.TrimSpace(get("price"))
	f.Price = nil
	if f.PriceText != "" {
		p, err := strconv.ParseFloat(f.PriceText, 64)
		if err != nil {
			f.parseErrs["price"] = "This field should be a number."
		} else {
			f.Price = &p
		}
	}

	f.QuantityText = strings.TrimSpace(get("quantity"))
	f.Quantity = nil
	if f.QuantityText != "" {
		q, err := strconv.Atoi(f.QuantityText)
		if err != nil {
			f.parseErrs["quantity"] = "This field should be a whole number."
		} else {
			f.Quantity = &q
		}
	}
}

func (f *SaleItemForm) SetFile(data []byte, contentType string) {
	f.Image = data
	f.ImageContentType = contentType
}

func (f *SaleItemForm) ClearImage() {
	f.Image = nil
	f.ImageContentType = ""
}

// Validate returns nil when the form can be saved.
func (f *SaleItemForm) Validate() FieldErrors {
	out := FieldErrors{}
	for k, msg := range f.parseErrs {
		out[k] = msg
	}
	err := v.Struct(f)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := out[fe.Field()]; seen {
				continue
			}
			switch fe.Tag() {
			case "required":
				out[fe.Field()] = "This field is required."
			case "oneof":
				out[fe.Field()] = "Unknown value."
			default:
				out[fe.Field()] = "Invalid value."
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SaleItem returns the raw value of the form, carried id included.
func (f *SaleItemForm) SaleItem() domain.SaleItem {
	it := domain.SaleItem{
		Name:             f.Name,
		Type:             domain.ItemType(f.Type),
		Image:            f.Image,
		ImageContentType: f.ImageContentType,
	}
	if f.ID != nil {
		id := *f.ID
		it.ID = &id
	}
	if f.Price != nil {
		it.Price = *f.Price
	}
	if f.Quantity != nil {
		q := *f.Quantity
		it.Quantity = &q
	}
	return it
}
