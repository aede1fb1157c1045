package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	// Session tokens. TTL is fixed at issuance, process-wide.
	JWTSecret   string
	JWTTTLHours int

	AllowedOrigins []string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration
	OTLPEndpoint    string

	// Seed admin, skipped when email/password are empty.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads process configuration once at startup. A missing signing
// secret or database URL is fatal to the caller.
func Load() (Config, error) {
	// best effort, real env vars win over the file
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		Port:            getEnvInt("PORT", 3000),
		DBURL:           buildDBURL(),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTLHours:     getEnvInt("JWT_TTL_HOURS", 40),
		AllowedOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		ProductCacheTTL: time.Duration(getEnvInt("PRODUCT_CACHE_TTL_SEC", 30)) * time.Second,
		OTLPEndpoint:    getEnv("OTLP_ENDPOINT", ""),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		AdminName:       getEnv("ADMIN_NAME", "Store Admin"),
		AuthRateLimit:   getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow:  time.Duration(getEnvInt("AUTH_RATE_WINDOW_SEC", 60)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingSecret
	}

	if cfg.DBURL == "" {
		return Config{}, errors.New("database URL is required")
	}

	return cfg, nil
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "storefront")
	pass := getEnv("DB_PASSWORD", "storefront")
	name := getEnv("DB_NAME", "storefront")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
