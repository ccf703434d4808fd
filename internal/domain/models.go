package domain

import "fmt"

type ItemType string

const (
	SecondHandItem ItemType = "SECOND_HAND_ITEM"
	Edible         ItemType = "EDIBLE"
)

// ItemTypes lists the closed set of item types in declaration order.
func ItemTypes() []ItemType {
	return []ItemType{SecondHandItem, Edible}
}

func ParseItemType(s string) (ItemType, error) {
	for _, t := range ItemTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// SaleItem is the entity served by api/sale-items. ID is nil until the
// backend has assigned one.
type SaleItem struct {
	ID               *int64   `json:"id"`
	Name             string   `json:"name,omitempty"`
	Price            float64  `json:"price"`
	Quantity         *int     `json:"quantity,omitempty"`
	Type             ItemType `json:"type,omitempty"`
	Image            []byte   `json:"image,omitempty"`
	ImageContentType string   `json:"imageContentType,omitempty"`
}

func (s SaleItem) IsNew() bool { return s.ID == nil }

// InStock reports whether quantity is tracked and positive.
func (s SaleItem) InStock() bool { return s.Quantity != nil && *s.Quantity > 0 }

// PartialSaleItem is a PATCH fragment. Nil fields are left untouched by the backend.
type PartialSaleItem struct {
	ID               int64     `json:"id"`
	Name             *string   `json:"name,omitempty"`
	Price            *float64  `json:"price,omitempty"`
	Quantity         *int      `json:"quantity,omitempty"`
	Type             *ItemType `json:"type,omitempty"`
	Image            []byte    `json:"image,omitempty"`
	ImageContentType *string   `json:"imageContentType,omitempty"`
}
