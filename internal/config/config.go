package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// Telegram login widget + bot API
	TelegramBotToken string
	TelegramBotName  string
	TelegramAuthTTL  time.Duration // 0 disables the freshness check

	// Session issuance
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Frontend admin route that receives the token fragment
	AdminRedirectURL string

	CORSOrigins []string

	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from the environment once at startup.
// A .env file is honored when present so local runs match deployment.
// Required values fail fast: the service cannot operate without its
// signing secrets and backing stores, so starting half-configured only
// moves the failure to the first login attempt.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		TelegramBotName: os.Getenv("TELEGRAM_BOT_NAME"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
	}

	// required values
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("missing required env var: TELEGRAM_BOT_TOKEN")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg.AdminRedirectURL = os.Getenv("ADMIN_REDIRECT_URL")
	if cfg.AdminRedirectURL == "" {
		return nil, fmt.Errorf("missing required env var: ADMIN_REDIRECT_URL")
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("missing required env var: DATABASE_DSN")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("missing required env var: REDIS_ADDR")
	}

	// optional with defaults
	authTTL, err := getDuration("TELEGRAM_AUTH_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.TelegramAuthTTL = authTTL

	accessTTL, err := getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = accessTTL

	refreshTTL, err := getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL = refreshTTL

	origins := getEnv("CORS_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
