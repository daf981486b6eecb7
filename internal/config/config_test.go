package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://portal.example.com/api/v1/")
	t.Setenv("PAGE_SIZE", "not-a-number")
	t.Setenv("BACKEND_TIMEOUT", "")

	cfg := LoadConfig()

	assert.Equal(t, "https://portal.example.com/api/v1", cfg.BackendBaseURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/wa/analytics", cfg.AnalyticsPath)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("COOKIE_SECURE", "yes")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg := LoadConfig()

	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}
