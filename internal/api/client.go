// Package api is the HTTP client for the api/sale-items REST resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fundraiser/internal/domain"
)

const resourcePath = "api/sale-items"

var (
	ErrNotFound  = errors.New("sale item not found")
	ErrIDExists  = errors.New("a new sale item cannot already have an id")
	ErrIDMissing = errors.New("sale item id is missing")
)

// StatusError is returned for any non-2xx answer from the backend.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Code)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken forwards a bearer token on every request.
func WithToken(tok string) Option {
	return func(c *Client) { c.token = tok }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) resourceURL() string {
	return c.baseURL + "/" + resourcePath
}

func (c *Client) itemURL(id int64) string {
	return c.resourceURL() + "/" + strconv.FormatInt(id, 10)
}

// Create posts a new entity and returns the persisted representation.
func (c *Client) Create(ctx context.Context, item domain.SaleItem) (*domain.SaleItem, error) {
	if !item.IsNew() {
		return nil, ErrIDExists
	}
	_, body, err := c.do(ctx, http.MethodPost, c.resourceURL(), item, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeItem(body)
}

// Update replaces the full representation of an existing entity.
func (c *Client) Update(ctx context.Context, item domain.SaleItem) (*domain.SaleItem, error) {
	if item.IsNew() {
		return nil, ErrIDMissing
	}
	_, body, err := c.do(ctx, http.MethodPut, c.itemURL(*item.ID), item, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeItem(body)
}

// PartialUpdate sends only the non-nil fields of the fragment.
func (c *Client) PartialUpdate(ctx context.Context, patch domain.PartialSaleItem) (*domain.SaleItem, error) {
	_, body, err := c.do(ctx, http.MethodPatch, c.itemURL(patch.ID), patch, "application/merge-patch+json")
	if err != nil {
		return nil, err
	}
	return decodeItem(body)
}

// Find fetches one entity. A 404 or an empty body yields ErrNotFound.
func (c *Client) Find(ctx context.Context, id int64) (*domain.SaleItem, error) {
	_, body, err := c.do(ctx, http.MethodGet, c.itemURL(id), nil, "")
	if err != nil {
		return nil, err
	}
	return decodeItem(body)
}

// Page is one answer of Query: the entities plus the pagination metadata
// carried in the response headers.
type Page struct {
	Items      []domain.SaleItem
	Links      map[string]int
	TotalCount int
}

func (c *Client) Query(ctx context.Context, opts RequestOptions) (*Page, error) {
	u := c.resourceURL()
	if q := opts.Encode(); q != "" {
		u += "?" + q
	}
	hdr, body, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	p := &Page{Items: []domain.SaleItem{}, Links: map[string]int{"last": 0}, TotalCount: -1}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &p.Items); err != nil {
			return nil, fmt.Errorf("decode sale items: %w", err)
		}
	}
	if link := hdr.Get("Link"); link != "" {
		links, err := ParseLinks(link)
		if err != nil {
			return nil, err
		}
		p.Links = links
	}
	if n, err := strconv.Atoi(hdr.Get("X-Total-Count")); err == nil {
		p.TotalCount = n
	}
	return p, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, "")
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload any, contentType string) (http.Header, []byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, nil, &StatusError{Method: method, URL: url, Code: res.StatusCode, Body: string(body)}
	}
	return res.Header, body, nil
}

func decodeItem(body []byte) (*domain.SaleItem, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return nil, ErrNotFound
	}
	var it domain.SaleItem
	if err := json.Unmarshal(body, &it); err != nil {
		return nil, fmt.Errorf("decode sale item: %w", err)
	}
	return &it, nil
}
