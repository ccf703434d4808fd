// Package pagination derives list paging and sorting from the request URL.
// Views never mutate this state; paging and sorting produce a new URL.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"fundraiser/internal/api"
)

const (
	ItemsPerPage = 20
	// MaxPageLinks bounds the page links a pager renders.
	MaxPageLinks = 10

	PageParam = "page"
	SizeParam = "size"
	SortParam = "sort"

	Asc  = "asc"
	Desc = "desc"

	DefaultSort = "id," + Asc
)

type State struct {
	Page         int
	ItemsPerPage int
	Predicate    string
	Ascending    bool
	Links        map[string]int
}

// FromQuery reads page and sort from the query getter, falling back to
// page 1 and defaultSort.
func FromQuery(get func(key string) string, defaultSort string) State {
	s := State{Page: 1, ItemsPerPage: ItemsPerPage, Links: map[string]int{"last": 0}}
	if n, err := strconv.Atoi(strings.TrimSpace(get(PageParam))); err == nil && n > 0 {
		s.Page = n
	}
	sort := get(SortParam)
	if sort == "" {
		sort = defaultSort
	}
	parts := strings.Split(sort, ",")
	s.Predicate = strings.TrimSpace(parts[0])
	s.Ascending = len(parts) > 1 && strings.TrimSpace(parts[1]) == Asc
	return s
}

// SortQueryParam returns the `field,dir` token, or nothing when no predicate is set.
func (s State) SortQueryParam() []string {
	if s.Predicate == "" {
		return nil
	}
	dir := Desc
	if s.Ascending {
		dir = Asc
	}
	return []string{s.Predicate + "," + dir}
}

// RequestOptions converts the 1-based view page into the 0-based wire page.
func (s State) RequestOptions() api.RequestOptions {
	page := s.Page
	if page < 1 {
		page = 1
	}
	size := s.ItemsPerPage
	if size <= 0 {
		size = ItemsPerPage
	}
	return api.RequestOptions{Page: page - 1, Size: size, Sort: s.SortQueryParam()}
}

// Navigate builds the URL for the given page and sort on base.
func (s State) Navigate(base string, page int, predicate string, ascending bool) string {
	next := State{Page: page, ItemsPerPage: s.ItemsPerPage, Predicate: predicate, Ascending: ascending}
	if next.ItemsPerPage <= 0 {
		next.ItemsPerPage = ItemsPerPage
	}
	v := url.Values{}
	v.Set(PageParam, strconv.Itoa(page))
	v.Set(SizeParam, strconv.Itoa(next.ItemsPerPage))
	for _, tok := range next.SortQueryParam() {
		v.Add(SortParam, tok)
	}
	return base + "?" + v.Encode()
}

func (s State) PageURL(base string, page int) string {
	return s.Navigate(base, page, s.Predicate, s.Ascending)
}

// SortURL restarts at page 1, toggling the direction when field is
// already the active predicate.
func (s State) SortURL(base, field string) string {
	asc := true
	if field == s.Predicate {
		asc = !s.Ascending
	}
	return s.Navigate(base, 1, field, asc)
}

// HasMore reports whether pages beyond the current one exist. The link
// relations carry 0-based page numbers.
func (s State) HasMore() bool {
	return s.Page-1 < s.Links["last"]
}

// Pages lists at most MaxPageLinks 1-based page numbers around the
// current page, within the range known from the last link relation.
func (s State) Pages() []int {
	total := 1
	if last := s.Links["last"]; last > 0 && last < math.MaxInt-1 {
		total = last + 1
	}
	first := s.Page - MaxPageLinks/2
	if first < 1 {
		first = 1
	}
	end := first + MaxPageLinks - 1
	if end > total {
		end = total
		first = max(1, end-MaxPageLinks+1)
	}
	out := make([]int, 0, end-first+1)
	for p := first; p <= end; p++ {
		out = append(out, p)
	}
	return out
}
