package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"fundraiser/internal/api"
	"fundraiser/internal/domain"
	"fundraiser/internal/pagination"
)

var ErrItemNotLoaded = errors.New("sale item is not in the shop list")

type SaleItemQuerier interface {
	Query(ctx context.Context, opts api.RequestOptions) (*api.Page, error)
}

// ShopSession is the view state of one browser's shop page.
type ShopSession struct {
	mu       sync.Mutex
	items    []domain.SaleItem
	basket   *Basket
	state    pagination.State
	loading  bool
	lastSeen time.Time
}

// ShopView is a consistent snapshot of a ShopSession for rendering.
type ShopView struct {
	Items       []domain.SaleItem
	BasketItems []domain.SaleItem
	Total       float64
	State       pagination.State
	Loading     bool
}

type ShopService struct {
	Items SaleItemQuerier

	mu       sync.Mutex
	sessions map[string]*ShopSession
	onForget []func(sid string)
	now      func() time.Time
}

func NewShopService(items SaleItemQuerier) *ShopService {
	return &ShopService{Items: items, sessions: map[string]*ShopSession{}, now: time.Now}
}

func (s *ShopService) session(sid string) *ShopSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.sessions[sid]
	if !ok {
		ss = &ShopSession{basket: NewBasket(), state: pagination.State{Page: 1, Links: map[string]int{"last": 0}}}
		s.sessions[sid] = ss
	}
	ss.lastSeen = s.now()
	return ss
}

// Load queries the page described by st and merges the answer into the
// session list: items whose id is not loaded yet are appended. On error
// the previous list is kept and the error returned. Concurrent loads of one
// session merge in the order their responses arrive.
func (s *ShopService) Load(ctx context.Context, sid string, st pagination.State) (ShopView, error) {
	ss := s.session(sid)

	ss.mu.Lock()
	ss.state.Page = st.Page
	ss.state.ItemsPerPage = st.ItemsPerPage
	ss.state.Predicate = st.Predicate
	ss.state.Ascending = st.Ascending
	ss.loading = true
	ss.mu.Unlock()

	page, err := s.Items.Query(ctx, st.RequestOptions())

	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.loading = false
	if err != nil {
		return ss.snapshot(), err
	}
	ss.state.Links = page.Links
	if ss.state.Links == nil {
		ss.state.Links = map[string]int{"last": 0}
	}
	ss.items = mergeByID(ss.items, page.Items)
	return ss.snapshot(), nil
}

// Reset empties the list and the basket, goes back to page 1 and loads again.
func (s *ShopService) Reset(ctx context.Context, sid string, st pagination.State) (ShopView, error) {
	ss := s.session(sid)
	ss.mu.Lock()
	ss.items = nil
	ss.basket.Clear()
	ss.mu.Unlock()

	st.Page = 1
	return s.Load(ctx, sid, st)
}

// AddToBasket adds a loaded item to the basket and recomputes the total.
// The returned bool is false when the item was refused by the basket guard.
func (s *ShopService) AddToBasket(sid string, id int64) (bool, error) {
	ss := s.session(sid)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for i := range ss.items {
		if api.Identifier(&ss.items[i]) == id {
			added := ss.basket.Add(ss.items[i])
			ss.basket.CalculateTotal()
			return added, nil
		}
	}
	return false, ErrItemNotLoaded
}

// Checkout hands out the session basket itself, not a copy.
func (s *ShopService) Checkout(sid string) *Basket {
	return s.session(sid).basket
}

func (s *ShopService) View(sid string) ShopView {
	ss := s.session(sid)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.snapshot()
}

// OnForget registers fn to run for every session dropped by Forget or
// Sweep, so per-session state held elsewhere goes with it.
func (s *ShopService) OnForget(fn func(sid string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onForget = append(s.onForget, fn)
}

// Forget drops the state of a session, e.g. on logout.
func (s *ShopService) Forget(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	hooks := s.onForget
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(sid)
	}
}

// Sweep drops sessions idle for longer than maxIdle and returns how many.
func (s *ShopService) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	var dropped []string
	for sid, ss := range s.sessions {
		if ss.lastSeen.Before(cutoff) {
			delete(s.sessions, sid)
			dropped = append(dropped, sid)
		}
	}
	hooks := s.onForget
	s.mu.Unlock()
	for _, sid := range dropped {
		for _, fn := range hooks {
			fn(sid)
		}
	}
	return len(dropped)
}

func (ss *ShopSession) snapshot() ShopView {
	items := make([]domain.SaleItem, len(ss.items))
	copy(items, ss.items)
	st := ss.state
	st.Links = make(map[string]int, len(ss.state.Links))
	for k, v := range ss.state.Links {
		st.Links[k] = v
	}
	return ShopView{
		Items:       items,
		BasketItems: ss.basket.Items(),
		Total:       ss.basket.Total(),
		State:       st,
		Loading:     ss.loading,
	}
}

func mergeByID(existing, incoming []domain.SaleItem) []domain.SaleItem {
	seen := make(map[int64]bool, len(existing)+len(incoming))
	for i := range existing {
		seen[api.Identifier(&existing[i])] = true
	}
	for _, it := range incoming {
		id := api.Identifier(&it)
		if seen[id] {
			continue
		}
		seen[id] = true
		existing = append(existing, it)
	}
	return existing
}
