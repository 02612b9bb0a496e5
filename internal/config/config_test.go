package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "1.0", cfg.DefaultAPIVersion)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10000, cfg.Cache.MaxKeys)
	assert.False(t, cfg.Development())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_DRIVER", "ristretto")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("DEFAULT_API_VERSION", "2.0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "ristretto", cfg.Cache.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "2.0", cfg.DefaultAPIVersion)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CACHE_DRIVER", "memcached")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDatabase_WithoutJWTSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)

	t.Setenv("DB_DRIVER", "mysql")
	_, err = LoadDatabase()
	assert.Error(t, err)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")
	require.NoError(t, os.WriteFile(p, []byte("DB_DSN=from_file\nAPP_ADDR=:9999\n"), 0644))

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("APP_ADDR", "")
	os.Unsetenv("APP_ADDR")
	t.Chdir(tmp)

	loadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, ":9999", os.Getenv("APP_ADDR"))
}
