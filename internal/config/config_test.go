package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "110201543:token")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_REDIRECT_URL", "http://localhost:5173/admin")
	t.Setenv("DATABASE_DSN", "postgres://localhost/app?sslmode=disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.TelegramAuthTTL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadMissingRequired(t *testing.T) {
	required := []string{
		"TELEGRAM_BOT_TOKEN",
		"JWT_SECRET",
		"ADMIN_REDIRECT_URL",
		"DATABASE_DSN",
		"REDIS_ADDR",
	}

	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_AUTH_TTL", "0s")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.TelegramAuthTTL)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestLoadBadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
