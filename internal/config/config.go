package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds application configuration values.
type Config struct {
	Secret         string
	HTTPPort       string
	DatabaseDriver string
	DatabaseDSN    string
	RemoteBaseURL  string
	RemoteTimeout  time.Duration
	ListTimeout    time.Duration
	SessionTTL     time.Duration
	CartTTL        time.Duration
	LogMode        string
	LogFile        string
	CatalogCSV     string
	SeedUser       string
	SeedPassword   string
	AllowedOrigins []string
}

// Load reads configuration from environment variables with reasonable defaults.
// A .env file in the working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Secret:         env("SECRET", "dev_secret"),
		HTTPPort:       env("HTTP_PORT", "8080"),
		DatabaseDriver: env("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    env("DATABASE_DSN", "stockdesk.db"),
		RemoteBaseURL:  strings.TrimRight(env("REMOTE_BASE_URL", "http://localhost:5000/api"), "/"),
		RemoteTimeout:  duration("REMOTE_TIMEOUT", 15*time.Second),
		ListTimeout:    duration("LIST_TIMEOUT", 10*time.Second),
		SessionTTL:     duration("SESSION_TTL", 12*time.Hour),
		CartTTL:        duration("CART_TTL", 6*time.Hour),
		LogMode:        env("LOG_MODE", "development"),
		LogFile:        os.Getenv("LOG_FILE"),
		CatalogCSV:     os.Getenv("CATALOG_CSV"),
		SeedUser:       os.Getenv("SEED_USER"),
		SeedPassword:   os.Getenv("SEED_PASSWORD"),
		AllowedOrigins: splitList(env("ALLOWED_ORIGINS", "*")),
	}

	// Validate that port is numeric.
	if _, err := cast.ToUintE(cfg.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "pgx":
	default:
		log.Printf("unsupported DATABASE_DRIVER %q, defaulting to sqlite", cfg.DatabaseDriver)
		cfg.DatabaseDriver = "sqlite"
	}

	if cfg.LogMode != "production" {
		cfg.LogMode = "development"
	}

	return cfg
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// duration accepts Go durations ("90s") or a bare number of seconds.
func duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if secs, err := cast.ToInt64E(raw); err == nil {
		if secs <= 0 {
			log.Printf("invalid %s value %q, defaulting to %s", key, raw, fallback)
			return fallback
		}
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s value %q, defaulting to %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
