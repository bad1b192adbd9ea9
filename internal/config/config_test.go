package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 24, cfg.TokenTTLHours)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin@municipal.gov", cfg.AdminEmail)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RATE_LIMIT_RPM", "120")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 120, cfg.RateLimitRPM)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadProductionValidation(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/complaints")

	// Default JWT secret is rejected in production.
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "real-secret")
	_, err = Load()
	require.Error(t, err) // admin password still defaulted

	t.Setenv("ADMIN_PASSWORD", "real-password")
	_, err = Load()
	assert.NoError(t, err)
}
