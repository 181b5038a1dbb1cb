package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingAPIBaseURL = errors.New("API_BASE_URL is not set")

type Config struct {
	AppEnv  string
	AppPort string

	APIBaseURL       string
	HTTPTimeout      time.Duration
	RetryMaxAttempts int

	RedisURL   string
	SessionDir string

	ProductsCacheTTL    time.Duration
	AdminOrdersCacheTTL time.Duration

	CORSAllowedOrigins []string
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:     getenv("APP_ENV", "development"),
		AppPort:    getenv("APP_PORT", "8080"),
		APIBaseURL: strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
		RedisURL:   os.Getenv("REDIS_URL"),
		SessionDir: getenv("SESSION_DIR", ".storefront"),
	}

	if cfg.APIBaseURL == "" {
		return nil, ErrMissingAPIBaseURL
	}

	var err error
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProductsCacheTTL, err = durationEnv("PRODUCTS_CACHE_TTL", 3*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AdminOrdersCacheTTL, err = durationEnv("ADMIN_ORDERS_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RetryMaxAttempts, err = intEnv("RETRY_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
