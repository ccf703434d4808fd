package handlers_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	env := newTestEnv(t, item(1, "Mug", 2, 1))
	env.login()
	env.be.setFail(http.StatusInternalServerError)

	var resp *http.Response
	logs := captureLogs(t, func() { resp = env.get("/sale-items") })
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if !strings.Contains(s, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "backend down") || strings.Contains(s, "/api/sale-items") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}
	if findLog(logs, "server.error") == nil {
		t.Fatal("server.error log not found")
	}
}

func TestUnknownPageRendersNotFound(t *testing.T) {
	env := newTestEnv(t)
	resp := env.get("/404")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	doc := document(t, resp)
	if msg := doc.Find(".message").Text(); msg == "" {
		t.Fatal("not found message missing")
	}
}

func TestPostWithoutCSRFIsRejected(t *testing.T) {
	env := newTestEnv(t, item(1, "Mug", 2, 1))
	env.login()
	env.csrf = ""
	resp := env.postMultipart("/sale-items/new", map[string]string{"name": "x", "price": "1", "type": "EDIBLE"}, pngBytes)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
	if env.be.byName("x") != nil {
		t.Fatal("item was created without csrf token")
	}
}
