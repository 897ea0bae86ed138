package main

import (
	"io"
	"testing"
	"time"

	"github.com/Prabashv2/movie-watchlist-app/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, envFrom(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.port)
	assert.Equal(t, "development", cfg.env)
	assert.Equal(t, "info", cfg.logLevel)
	assert.Empty(t, cfg.db.dsn)
	assert.Equal(t, 25, cfg.db.maxOpenConns)
	assert.Equal(t, 25, cfg.db.maxIdleConns)
	assert.Equal(t, "15m", cfg.db.maxIdleTime)
	assert.True(t, cfg.db.migrate)
	assert.Equal(t, auth.DefaultTTL, cfg.jwt.ttl)
	assert.Equal(t, []string{"*"}, cfg.cors.trustedOrigins)
	assert.False(t, cfg.displayVersion)
}

func TestParseConfig_Environment(t *testing.T) {
	cfg, err := parseConfig(nil, envFrom(map[string]string{
		"PORT":                           "8080",
		"WATCHLIST_ENV":                  "production",
		"WATCHLIST_LOG_LEVEL":            "warn",
		"WATCHLIST_DB_DSN":               "postgres://watchlist@localhost/watchlist",
		"JWT_SECRET":                     "s3cret",
		"WATCHLIST_CORS_TRUSTED_ORIGINS": "https://a.example.com https://b.example.com",
	}), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, "production", cfg.env)
	assert.Equal(t, "warn", cfg.logLevel)
	assert.Equal(t, "postgres://watchlist@localhost/watchlist", cfg.db.dsn)
	assert.Equal(t, "s3cret", cfg.jwt.secret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.cors.trustedOrigins)
}

func TestParseConfig_FlagsOverrideEnvironment(t *testing.T) {
	cfg, err := parseConfig([]string{
		"-port", "9000",
		"-jwt-secret", "from-flag",
		"-jwt-ttl", "2h",
		"-db-migrate=false",
		"-cors-trusted-origins", "https://c.example.com",
		"-version",
	}, envFrom(map[string]string{
		"PORT":       "8080",
		"JWT_SECRET": "from-env",
	}), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.port)
	assert.Equal(t, "from-flag", cfg.jwt.secret)
	assert.Equal(t, 2*time.Hour, cfg.jwt.ttl)
	assert.False(t, cfg.db.migrate)
	assert.Equal(t, []string{"https://c.example.com"}, cfg.cors.trustedOrigins)
	assert.True(t, cfg.displayVersion)
}

func TestParseConfig_Errors(t *testing.T) {
	_, err := parseConfig(nil, envFrom(map[string]string{"PORT": "eighty"}), io.Discard)
	assert.Error(t, err)

	_, err = parseConfig([]string{"-no-such-flag"}, envFrom(nil), io.Discard)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() config {
		var cfg config
		cfg.env = "production"
		cfg.db.dsn = "postgres://localhost/watchlist"
		cfg.jwt.secret = "s3cret"
		cfg.jwt.ttl = time.Hour
		return cfg
	}

	assert.NoError(t, valid().validate())

	cfg := valid()
	cfg.jwt.secret = ""
	assert.ErrorContains(t, cfg.validate(), "JWT secret")

	cfg = valid()
	cfg.jwt.ttl = 0
	assert.Error(t, cfg.validate())

	cfg = valid()
	cfg.db.dsn = ""
	assert.ErrorContains(t, cfg.validate(), "production")

	// Development may run on the in-memory store.
	cfg.env = "development"
	assert.NoError(t, cfg.validate())
}
