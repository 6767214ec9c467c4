package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("PORT", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, "oficina-api", cfg.JWTIssuer)
	assert.Equal(t, "oficina-client", cfg.JWTAudience)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestLoad_PortAndOrigins(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
}
