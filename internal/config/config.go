package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	APIBaseURL   string
	APIToken     string
	APITimeout   time.Duration
	DBDSN        string
	LogFile      string
	TemplatesDir string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() Config {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	timeout, err := time.ParseDuration(getenv("API_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		log.Printf("[warn] bad API_TIMEOUT %q, using 10s", os.Getenv("API_TIMEOUT"))
		timeout = 10 * time.Second
	}

	cfg := Config{
		Port:         getenv("PORT", "8081"),
		APIBaseURL:   getenv("API_BASE_URL", "http://localhost:8080"),
		APIToken:     os.Getenv("API_TOKEN"),
		APITimeout:   timeout,
		DBDSN:        getenv("DB_DSN", "fundraiser.db"), // sqlite file in project root
		LogFile:      getenv("LOG_FILE", "./fundraiser.log"),
		TemplatesDir: getenv("TEMPLATES_DIR", "./web/templates"),
	}
	tok := ""
	if cfg.APIToken != "" {
		tok = "(set)"
	}
	log.Printf("[config] PORT=%s API_BASE_URL=%s API_TOKEN=%s API_TIMEOUT=%s DB_DSN=%s LOG_FILE=%s TEMPLATES_DIR=%s",
		cfg.Port, cfg.APIBaseURL, tok, cfg.APITimeout, cfg.DBDSN, cfg.LogFile, cfg.TemplatesDir)
	return cfg
}
