package config_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/velocart/config"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "8080", config.AppPort())
	assert.Equal(t, 5*time.Second, config.StoreTimeout())
	assert.Equal(t, "end", config.CursorMissingPolicy())
	assert.Equal(t, 30, config.SearchRateLimit())
	assert.Equal(t, time.Minute, config.SearchRateWindow())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("SEARCH_RATE_LIMIT", "7")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("CURSOR_MISSING_POLICY", "RESTART")
	t.Setenv("INDEX_STRICT", "true")

	assert.Equal(t, "9999", config.AppPort())
	assert.Equal(t, 7, config.SearchRateLimit())
	assert.Equal(t, 250*time.Millisecond, config.StoreTimeout())
	assert.Equal(t, "restart", config.CursorMissingPolicy())
	assert.True(t, config.IndexStrict())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	t.Setenv("STORE_TIMEOUT", "soon")
	t.Setenv("SEARCH_RATE_LIMIT", "-3")

	assert.Equal(t, "memory", config.StoreDriver())
	assert.Equal(t, 5*time.Second, config.StoreTimeout())
	assert.Equal(t, 30, config.SearchRateLimit())
}

func TestDatabaseDSNFollowsDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	assert.Equal(t, "postgres", config.DatabaseDriver())
	assert.Contains(t, config.DatabaseDSN(), "dbname=velocart")

	t.Setenv("DATABASE_DSN", "custom")
	assert.Equal(t, "custom", config.DatabaseDSN())
}

func TestCORSAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.CORSAllowedOrigins())
}

func TestTrustedProxies(t *testing.T) {
	assert.Empty(t, config.TrustedProxies())

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1,not-an-ip, ::1")
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.1/32"),
		netip.MustParsePrefix("::1/128"),
	}, config.TrustedProxies())
}
