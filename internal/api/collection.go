package api

import "fundraiser/internal/domain"

// Identifier returns the id of a persisted entity, 0 for a new or nil one.
func Identifier(item *domain.SaleItem) int64 {
	if item == nil || item.ID == nil {
		return 0
	}
	return *item.ID
}

// Compare is the only notion of entity equality: both nil, or both non-nil
// with the same id.
func Compare(a, b *domain.SaleItem) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ID == nil || b.ID == nil {
		return a.ID == nil && b.ID == nil
	}
	return *a.ID == *b.ID
}

type idKey struct {
	id    int64
	unset bool
}

func keyOf(item *domain.SaleItem) idKey {
	if item.ID == nil {
		return idKey{unset: true}
	}
	return idKey{id: *item.ID}
}

// AddToCollectionIfMissing prepends, in input order, every candidate whose id
// is not yet in the collection. Nil candidates are ignored and duplicates
// among the candidates are dropped. The collection itself is not modified.
func AddToCollectionIfMissing(collection []domain.SaleItem, candidates ...*domain.SaleItem) []domain.SaleItem {
	present := make([]*domain.SaleItem, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return collection
	}

	seen := make(map[idKey]bool, len(collection)+len(present))
	for i := range collection {
		seen[keyOf(&collection[i])] = true
	}
	var add []domain.SaleItem
	for _, c := range present {
		k := keyOf(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		add = append(add, *c)
	}
	out := make([]domain.SaleItem, 0, len(add)+len(collection))
	out = append(out, add...)
	return append(out, collection...)
}
