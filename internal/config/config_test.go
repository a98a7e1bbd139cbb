package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		JWTSecret:           "secure-secret-at-least-32-chars-long",
		DBDriver:            "postgres",
		DBPassword:          "secure-password",
		DBSSLMode:           "require",
		Port:                "8080",
		FeedDefaultPageSize: 20,
		FeedMaxPageSize:     100,
		FeedRankedOverfetch: 3,
		TracingSampleRatio:  1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid development config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"SQLite driver", func(c *Config) { c.DBDriver = "sqlite" }, false},
		{"Zero default page size", func(c *Config) { c.FeedDefaultPageSize = 0 }, true},
		{"Max page size below default", func(c *Config) { c.FeedMaxPageSize = 10 }, true},
		{"Overfetch below one", func(c *Config) { c.FeedRankedOverfetch = 0 }, true},
		{"Sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"Production with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"Production with short secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"Production with default DB password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"Production on sqlite ignores DB password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "sqlite"
			c.DBPassword = ""
		}, false},
		{"Production with strong settings", func(c *Config) { c.Env = "production" }, false},
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

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8375", c.Port)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, 20, c.FeedDefaultPageSize)
	assert.Equal(t, 100, c.FeedMaxPageSize)
	assert.Equal(t, 3, c.FeedRankedOverfetch)
	assert.True(t, c.FeedIncludeSelf)
	assert.False(t, c.TracingEnabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("FEED_INCLUDE_SELF", "false")
	t.Setenv("FEED_DEFAULT_PAGE_SIZE", "15")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.False(t, c.FeedIncludeSelf)
	assert.Equal(t, 15, c.FeedDefaultPageSize)
}

func TestLoadConfig_MissingProfileFails(t *testing.T) {
	t.Setenv("APP_ENV", "staging-does-not-exist")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
}
