package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "flota-api", cfg.App.Name)
	assert.Equal(t, "serializable", cfg.Propagation.Isolation)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "flota.propagaciones", cfg.Redis.Channel)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_Env(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"STORAGE_DRIVER":        "MEMORY",
		"REDIS_ADDR":            "localhost:6379",
		"REDIS_DB":              "2",
		"PROPAGATION_ISOLATION": "read_committed",
		"HTTP_PORT":             "9090",
		"ADMIN_EMAIL":           "admin@flota.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "read_committed", cfg.Propagation.Isolation)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "admin@flota.test", cfg.JWT.AdminEmail)
	assert.Empty(t, cfg.JWT.AdminPassword)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	_, err := loadWith(t, map[string]string{"STORAGE_DRIVER": "mongo"})
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "flota", Password: "p@ss:word", DBName: "flota", SSLMode: "disable"}
	assert.Equal(t, "postgres://flota:p%40ss%3Aword@db:5432/flota?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func loadWith(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	for _, k := range []string{"STORAGE_DRIVER", "REDIS_ADDR", "REDIS_DB", "PROPAGATION_ISOLATION", "HTTP_PORT", "APP_NAME", "REDIS_CHANNEL", "HTTP_HOST", "ADMIN_EMAIL", "ADMIN_PASSWORD"} {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	return Load()
}
