package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                "development",
		Port:               "5000",
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		StoreDriver:        StoreMemory,
		UploadMaxSizeMB:    5,
		TracingSampleRatio: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid memory config", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }, true},
		{"sqlite without path", func(c *Config) { c.StoreDriver = StoreSQLite }, true},
		{"sqlite with path", func(c *Config) { c.StoreDriver = StoreSQLite; c.SQLitePath = ":memory:" }, false},
		{"bad sample ratio", func(c *Config) { c.TracingSampleRatio = 2 }, true},
		{"zero upload size", func(c *Config) { c.UploadMaxSizeMB = 0 }, true},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production postgres without tls", func(c *Config) {
			c.Env = "production"
			c.StoreDriver = StorePostgres
			c.DBPassword = "strong-password"
			c.DBSSLMode = "disable"
		}, true},
		{"production postgres with tls", func(c *Config) {
			c.Env = "prod"
			c.StoreDriver = StorePostgres
			c.DBPassword = "strong-password"
			c.DBSSLMode = "verify-full"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_DefaultsAndNormalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, c.StoreDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, "skillswap.db", c.SQLitePath)
	assert.Equal(t, 5, c.UploadMaxSizeMB)
	assert.False(t, c.IsProduction())
}
