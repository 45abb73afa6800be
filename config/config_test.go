package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_TTL", "")
	t.Setenv("RESET_TOKEN_TTL", "")
	t.Setenv("EMAIL_MAX_RETRIES", "")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "products", cfg.ESProductsIndex)
	assert.Equal(t, 5, cfg.EmailMaxRetries)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RESET_TOKEN_TTL", "soon")
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("REQUIRE_HTTPS", "maybe")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.False(t, cfg.RequireHTTPS)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "shop", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/shop?sslmode=disable", cfg.PostgresDSN())
}

func TestSplitCSV(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test "}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, (&Config{}).ESAddrs())
}
