package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("PROPOSITION_YEAR", "")
	t.Setenv("PORT", "")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, 2024, cfg.PropositionYear)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "uploads", cfg.SupabaseBucket)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqTextModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("PROPOSITION_YEAR", "2025")
	t.Setenv("DOU_CACHE_TTL", "not-a-duration")
	t.Setenv("LOG_RETENTION_DAYS", "7")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 2025, cfg.PropositionYear)
	assert.Equal(t, 10*time.Minute, cfg.DOUCacheTTL, "invalid duration falls back to default")
	assert.Equal(t, 7, cfg.LogRetentionDays)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
