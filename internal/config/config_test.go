package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-dev-secret")
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_EXPIRY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, time.Hour, cfg.Auth.TokenExpiry)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins, "development allows localhost origins")
}

func TestLoad_TokenExpiryOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-dev-secret")
	t.Setenv("TOKEN_EXPIRY", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenExpiry)
}

func TestValidateJWTSecret(t *testing.T) {
	assert.Error(t, validateJWTSecret("short", "development"))
	assert.Error(t, validateJWTSecret("changeme", "development"))
	assert.NoError(t, validateJWTSecret("a-sufficiently-long-dev-secret", "development"))

	// Production demands 32+ characters
	assert.Error(t, validateJWTSecret("a-sufficiently-long-dev-secret", "production"))
	assert.NoError(t, validateJWTSecret("a-production-grade-secret-with-32-chars!", "production"))
}

func TestParseAllowedOrigins_Production(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	origins := parseAllowedOrigins("production")
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, origins)
}
