package api

import (
	"net/url"
	"strconv"
)

// RequestOptions are the listing parameters as sent on the wire. Page is
// 0-based here; the views count from 1.
type RequestOptions struct {
	Page int
	Size int
	Sort []string
	// Extra carries any other query parameter verbatim.
	Extra url.Values
}

func (o RequestOptions) Encode() string {
	v := url.Values{}
	for k, vals := range o.Extra {
		for _, x := range vals {
			v.Add(k, x)
		}
	}
	if o.Page >= 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Size > 0 {
		v.Set("size", strconv.Itoa(o.Size))
	}
	for _, s := range o.Sort {
		v.Add("sort", s)
	}
	return v.Encode()
}
