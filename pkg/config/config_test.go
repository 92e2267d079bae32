package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "APP_ENV", "ENV", "SERVER_PORT", "CORS_ALLOWED_ORIGINS", "DATABASE_URL",
		"ENABLE_TLS", "JWT_SECRET", "JWT_TTL", "LOGIN_RATE_RPS", "LISTING_CACHE_TTL", "TLS_CERT_PATH", "TLS_KEY_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Env)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, 5*time.Minute, cfg.ListingCacheTTL)
	require.Equal(t, "fn_auth", cfg.Auth.CookieName)
	require.EqualValues(t, 10<<20, cfg.Uploads.MaxBytes)
	require.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DATABASE_URL", "postgres://localhost/fn")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("LOGIN_RATE_RPS", "0.5")
	t.Setenv("LISTING_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, "postgres://localhost/fn", cfg.Database.URL)
	require.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	require.InDelta(t, 0.5, cfg.Auth.LoginRateRPS, 1e-9)
	require.Equal(t, 5*time.Minute, cfg.ListingCacheTTL)
}

func TestLoad_ProductionForcesTLS(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ENABLE_TLS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.True(t, cfg.TLS.Enabled)
	require.Equal(t, "8443", cfg.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
cors_origins: ["https://app.example"]
database:
  url: postgres://file/fn
  max_conns: 20
uploads:
  dir: /tmp/fn-uploads
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "postgres://env/fn")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Port)
	require.Equal(t, []string{"https://app.example"}, cfg.CORSOrigins)
	require.Equal(t, 20, cfg.Database.MaxConns)
	require.Equal(t, "/tmp/fn-uploads", cfg.Uploads.Dir)
	// environment wins over the file
	require.Equal(t, "postgres://env/fn", cfg.Database.URL)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	require.Error(t, cfg.Validate())

	cfg.Database.URL = "postgres://localhost/fn"
	require.NoError(t, cfg.Validate())

	cfg.Env = "production"
	cfg.TLS.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.Auth.JWTSecret = "s3cret"
	require.ErrorContains(t, cfg.Validate(), "TLS_CERT_PATH")

	cfg.TLS.CertPath, cfg.TLS.KeyPath = "cert.pem", "key.pem"
	require.NoError(t, cfg.Validate())
}
