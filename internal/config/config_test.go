package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_BASE_URL", "http://backend:9000")
	t.Setenv("API_TIMEOUT", "nonsense")
	t.Setenv("API_TOKEN", "secret")

	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("port default got %q", cfg.Port)
	}
	if cfg.APIBaseURL != "http://backend:9000" {
		t.Fatalf("base url got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("bad timeout should fall back, got %s", cfg.APITimeout)
	}
	if cfg.APIToken != "secret" {
		t.Fatal("token not read")
	}
}

func TestDefaultsDoNotPointAtItself(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_BASE_URL", "")

	cfg := Load()
	if strings.HasSuffix(cfg.APIBaseURL, ":"+cfg.Port) {
		t.Fatalf("default backend %s is the app's own port %s", cfg.APIBaseURL, cfg.Port)
	}
}
