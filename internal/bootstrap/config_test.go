package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "team_achievements/internal/errors"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CorsOrigins)
	assert.Equal(t, 30*24*time.Hour, cfg.RecentWindow())
	assert.False(t, cfg.TrustProxy)
}

func TestSetupFromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("RECENT_DAYS", "7")

	cfg, err := Setup("")
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.RecentWindow())
}

func TestSetupFromEnvFile(t *testing.T) {
	for _, key := range []string{"ADMIN_USERNAME", "SERVER_PORT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_USERNAME=boss\nSERVER_PORT=9000\n"), 0o600))

	cfg, err := Setup(path)
	require.NoError(t, err)

	assert.Equal(t, "boss", cfg.AdminUsername)
	assert.Equal(t, "9000", cfg.ServerPort)
}

func TestSetupRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")

	_, err := Setup("")
	assert.ErrorIs(t, err, errs.ErrUnknownStorageBackend)
}
