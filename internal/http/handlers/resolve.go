package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"fundraiser/internal/api"
	"fundraiser/internal/domain"
	applog "fundraiser/internal/log"
	"fundraiser/internal/validate"
)

type SaleItemFinder interface {
	Find(ctx context.Context, id int64) (*domain.SaleItem, error)
}

// ResolveSaleItem fetches the entity named by the :id route parameter
// before a view is shown.
//
//   - no id: (nil, true, nil), create mode, nothing is fetched
//   - found: (item, true, nil)
//   - not found or malformed id: redirect to /404 and ok=false; the caller
//     must return without rendering
func ResolveSaleItem(c *fiber.Ctx, finder SaleItemFinder) (*domain.SaleItem, bool, error) {
	raw := c.Params("id")
	if raw == "" {
		return nil, true, nil
	}
	id, ok := validate.ID(raw)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return nil, false, c.Redirect("/404")
	}
	item, err := finder.Find(c.UserContext(), id)
	if errors.Is(err, api.ErrNotFound) {
		return nil, false, c.Redirect("/404")
	}
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}
