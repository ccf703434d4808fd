package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"fundraiser/internal/api"
	"fundraiser/internal/domain"
	"fundraiser/internal/http/handlers"
	applog "fundraiser/internal/log"
	"fundraiser/internal/repos"
	"fundraiser/internal/services"
)

const templatesDir = "../../web/templates"

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func ptr[T any](v T) *T { return &v }

func item(id int64, name string, price float64, qty int) domain.SaleItem {
	return domain.SaleItem{ID: ptr(id), Name: name, Price: price, Quantity: ptr(qty), Type: domain.SecondHandItem}
}

// fakeBackend serves api/sale-items from memory.
type fakeBackend struct {
	mu        sync.Mutex
	items     []domain.SaleItem
	nextID    int64
	failWith  int
	lastQuery url.Values
	deleted   []int64
	requests  []string
}

func newFakeBackend(items ...domain.SaleItem) *fakeBackend {
	return &fakeBackend{items: items, nextID: 1000}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	if b.failWith != 0 {
		http.Error(w, "backend down", b.failWith)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/sale-items")
	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			b.list(w, r)
		case http.MethodPost:
			var it domain.SaleItem
			_ = json.NewDecoder(r.Body).Decode(&it)
			b.nextID++
			it.ID = ptr(b.nextID)
			b.items = append(b.items, it)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(it)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(rest, "/"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	idx := -1
	for i := range b.items {
		if api.Identifier(&b.items[i]) == id {
			idx = i
		}
	}
	if idx < 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(b.items[idx])
	case http.MethodPut:
		var it domain.SaleItem
		_ = json.NewDecoder(r.Body).Decode(&it)
		b.items[idx] = it
		_ = json.NewEncoder(w).Encode(it)
	case http.MethodDelete:
		b.items = append(b.items[:idx], b.items[idx+1:]...)
		b.deleted = append(b.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBackend) list(w http.ResponseWriter, r *http.Request) {
	b.lastQuery = r.URL.Query()
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 20
	}
	sorted := append([]domain.SaleItem(nil), b.items...)
	sort.Slice(sorted, func(i, j int) bool { return api.Identifier(&sorted[i]) < api.Identifier(&sorted[j]) })

	last := 0
	if len(sorted) > 0 {
		last = (len(sorted) - 1) / size
	}
	from := page * size
	if from > len(sorted) {
		from = len(sorted)
	}
	to := from + size
	if to > len(sorted) {
		to = len(sorted)
	}
	link := func(p int, rel string) string {
		return "<http://backend/api/sale-items?page=" + strconv.Itoa(p) + "&size=" + strconv.Itoa(size) + ">; rel=\"" + rel + "\""
	}
	rels := []string{link(0, "first"), link(last, "last")}
	if page < last {
		rels = append(rels, link(page+1, "next"))
	}
	w.Header().Set("Link", strings.Join(rels, ","))
	w.Header().Set("X-Total-Count", strconv.Itoa(len(sorted)))
	_ = json.NewEncoder(w).Encode(sorted[from:to])
}

func (b *fakeBackend) byName(name string) *domain.SaleItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].Name == name {
			it := b.items[i]
			return &it
		}
	}
	return nil
}

func (b *fakeBackend) requestLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *fakeBackend) setFail(code int) {
	b.mu.Lock()
	b.failWith = code
	b.mu.Unlock()
}

func friendlyErrors(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// testEnv is the app wired the way main wires it, against a fake backend.
// It carries the sid and csrf_ cookies between requests like a browser.
type testEnv struct {
	t    *testing.T
	app  *fiber.App
	be   *fakeBackend
	deps *handlers.Deps
	sid  string
	csrf string
}

func newTestEnv(t *testing.T, items ...domain.SaleItem) *testEnv {
	t.Helper()
	be := newFakeBackend(items...)
	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(api.NewClient(srv.URL), authSvc)

	app := fiber.New(fiber.Config{Views: handlers.NewEngine(templatesDir), ErrorHandler: friendlyErrors, BodyLimit: 8 << 20})
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})
	handlers.Register(app, deps)

	return &testEnv{t: t, app: app, be: be, deps: deps}
}

func (e *testEnv) do(req *http.Request) *http.Response {
	e.t.Helper()
	if e.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: e.sid})
	}
	if e.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: e.csrf})
	}
	resp, err := e.app.Test(req, 10000)
	if err != nil {
		e.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	for _, c := range resp.Cookies() {
		switch c.Name {
		case "sid":
			e.sid = c.Value
		case "csrf_":
			e.csrf = c.Value
		}
	}
	return resp
}

func (e *testEnv) get(path string) *http.Response {
	e.t.Helper()
	return e.do(httptest.NewRequest("GET", path, nil))
}

func (e *testEnv) postForm(path string, vals url.Values) *http.Response {
	e.t.Helper()
	if vals == nil {
		vals = url.Values{}
	}
	vals.Set("csrf", e.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) postMultipart(path string, vals map[string]string, file []byte) *http.Response {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("csrf", e.csrf)
	for k, v := range vals {
		_ = mw.WriteField(k, v)
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "upload.bin")
		if err != nil {
			e.t.Fatal(err)
		}
		_, _ = fw.Write(file)
	}
	_ = mw.Close()
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

func (e *testEnv) login() {
	e.t.Helper()
	e.get("/login")
	if e.csrf == "" {
		e.t.Fatal("csrf token missing")
	}
	resp := e.postForm("/login", url.Values{"username": {"admin"}, "password": {"admin"}})
	if resp.StatusCode != http.StatusFound {
		e.t.Fatalf("login: expected redirect, got %d", resp.StatusCode)
	}
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

// captureLogs temporarily replaces the standard logger output.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func findLog(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}
