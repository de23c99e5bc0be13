package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/darmenu")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "MAD", cfg.Currency)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.Notify.MaxAttempts)
	assert.True(t, cfg.Notify.InProcess)
	assert.False(t, cfg.R2.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("PUBLIC_BASE_URL", "https://menu.example.com/")
	t.Setenv("CORS_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.LowStockThreshold)
	assert.Equal(t, "https://menu.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestValidateMissing(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://x"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSetting))
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, time.UTC, cfg.Location())
}
