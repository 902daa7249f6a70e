package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VARIANT_MAX_COMBINATIONS", "")
	t.Setenv("REDIS_ENABLED", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Variant.MaxCombinations)
	assert.Equal(t, 3, cfg.Variant.SKUMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Variant.CatalogCacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoad_DatabasePool(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoad_VariantOverrides(t *testing.T) {
	t.Setenv("VARIANT_MAX_COMBINATIONS", "120")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("VARIANT_AUDIT_CRON", "*/5 * * * *")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Variant.MaxCombinations)
	assert.Equal(t, 30*time.Second, cfg.Variant.CatalogCacheTTL)
	assert.Equal(t, "*/5 * * * *", cfg.Variant.AuditCron)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
}

func TestParseSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, parseSlice("a,b,c"))
	assert.Equal(t, []string{}, parseSlice(""))
}

func TestParseInt_Fallback(t *testing.T) {
	assert.Equal(t, 7, parseInt("oops", 7))
	assert.Equal(t, 9, parseInt("9", 7))
}
