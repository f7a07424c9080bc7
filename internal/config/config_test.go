// internal/config/config_test.go
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
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, CatalogFile, cfg.CatalogSource)
	assert.Equal(t, 10*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, "sanctum_actions", cfg.JournalQueue)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SANCTUM_LISTEN_ADDR", ":9999")
	t.Setenv("SANCTUM_HANDSHAKE_TIMEOUT", "3s")
	t.Setenv("SANCTUM_REDIS_DB", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanctum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog_source: postgres\ndatabase_url: postgres://localhost/sanctum\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CatalogPostgres, cfg.CatalogSource)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsPostgresWithoutURL(t *testing.T) {
	t.Setenv("SANCTUM_CATALOG_SOURCE", "postgres")
	_, err := Load("")
	assert.Error(t, err)
}
