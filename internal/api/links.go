package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomnomnom/linkheader"
)

var errEmptyLinkHeader = errors.New("link header must not be empty")

// ParseLinks maps each relation of a pagination Link header to the page
// number found in its URL, e.g. `<...?page=4&size=20>; rel="last"` -> last:4.
// Relations whose URL has no page parameter are skipped.
func ParseLinks(header string) (map[string]int, error) {
	if strings.TrimSpace(header) == "" {
		return nil, errEmptyLinkHeader
	}
	links := map[string]int{}
	for _, l := range linkheader.Parse(header) {
		if l.Rel == "" {
			return nil, fmt.Errorf("link %q has no rel", l.URL)
		}
		u, err := url.Parse(l.URL)
		if err != nil {
			return nil, fmt.Errorf("link %q: %w", l.URL, err)
		}
		raw := u.Query().Get("page")
		if raw == "" {
			continue
		}
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return nil, fmt.Errorf("link %q: bad page %q", l.URL, raw)
		}
		links[l.Rel] = page
	}
	return links, nil
}
