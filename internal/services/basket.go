package services

import (
	"sync"

	"fundraiser/internal/domain"
)

// Basket is the transient selection of a shopping session. The shop view
// and the checkout view share the same *Basket.
type Basket struct {
	mu    sync.Mutex
	items []domain.SaleItem
	total float64
}

func NewBasket() *Basket { return &Basket{} }

// Add appends item when it has a positive price and a positive tracked
// quantity; it reports whether the item was taken.
func (b *Basket) Add(item domain.SaleItem) bool {
	if item.Price <= 0 || !item.InStock() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, item)
	return true
}

// CalculateTotal recomputes the total as the sum of item prices. Quantity
// is not factored in.
func (b *Basket) CalculateTotal() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total = sumPrices(b.items)
	return b.total
}

func (b *Basket) Total() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

func (b *Basket) Items() []domain.SaleItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.SaleItem, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Basket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = nil
	b.total = 0
}

func sumPrices(items []domain.SaleItem) float64 {
	total := 0.0
	for _, it := range items {
		if it.Price != 0 {
			total += it.Price
		}
	}
	return total
}
