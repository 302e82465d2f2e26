package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "STORE_BACKEND", "DATA_DIR", "ENERGY_UNIT", "SESSION_TTL", "REDIS_DB", "OIDC_ISSUER"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "kcal", cfg.EnergyUnit)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.OIDC.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("ENERGY_UNIT", "kJ")
	t.Setenv("OIDC_ISSUER", "https://id.example.com")
	t.Setenv("OIDC_CLIENT_ID", "tracker")
	t.Setenv("OIDC_REDIRECT_URL", "https://tracker.example.com/api/sso/callback")

	cfg := Load()
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.OIDC.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("SESSION_TTL", "forever")

	cfg := Load()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestValidate(t *testing.T) {
	base := Config{StoreBackend: BackendMemory, EnergyUnit: "kcal", SessionTTL: time.Hour}
	require.NoError(t, base.Validate())

	pg := base
	pg.StoreBackend = BackendPostgres
	assert.Error(t, pg.Validate())
	pg.DatabaseURL = "postgres://localhost/calories"
	assert.NoError(t, pg.Validate())

	lite := base
	lite.StoreBackend = BackendSQLite
	assert.NoError(t, lite.Validate())

	unknown := base
	unknown.StoreBackend = "floppy"
	assert.Error(t, unknown.Validate())

	unit := base
	unit.EnergyUnit = "cal"
	assert.Error(t, unit.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CALORIES_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("CALORIES_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("CALORIES_TEST_VALUE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("CALORIES_TEST_VALUE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
	require.NoError(t, LoadDotEnv(""))
}
