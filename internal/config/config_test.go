package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("SESSION_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "DB_DRIVER", "DB_MAX_OPEN", "DB_MAX_IDLE", "DB_MAX_LIFETIME", "SESSION_COOKIE", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, ":4000", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Database.MaxOpen)
	assert.Equal(t, 300*time.Second, cfg.Database.MaxLifetime)
	assert.Equal(t, "session", cfg.CookieName)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_MAX_OPEN", "4")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Database.MaxOpen)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing database url":   {"DATABASE_URL": ""},
		"missing session secret": {"SESSION_SECRET": ""},
		"unknown driver":         {"DB_DRIVER": "mysql"},
		"bad int":                {"DB_MAX_IDLE": "lots"},
		"bad bool":               {"COOKIE_SECURE": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("DB_DRIVER", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ALRAMY_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("ALRAMY_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("ALRAMY_TEST_VALUE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("ALRAMY_TEST_VALUE"))
}
