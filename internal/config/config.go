// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Port           string `mapstructure:"PORT"`
	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBSQLitePath   string `mapstructure:"DB_SQLITE_PATH"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`

	FeedDefaultPageSize int  `mapstructure:"FEED_DEFAULT_PAGE_SIZE"`
	FeedMaxPageSize     int  `mapstructure:"FEED_MAX_PAGE_SIZE"`
	FeedIncludeSelf     bool `mapstructure:"FEED_INCLUDE_SELF"`
	FeedRankedOverfetch int  `mapstructure:"FEED_RANKED_OVERFETCH"`

	// Development-only seeding on startup.
	DevSeedDemo    bool   `mapstructure:"DEV_SEED_DEMO"`
	DevSeedFixture string `mapstructure:"DEV_SEED_FIXTURE"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The base config file is optional.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DBDriver = strings.ToLower(strings.TrimSpace(config.DBDriver))
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8375")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "social_feed")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "socialfeed.db")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	v.SetDefault("FEED_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("FEED_MAX_PAGE_SIZE", 100)
	v.SetDefault("FEED_INCLUDE_SELF", true)
	v.SetDefault("FEED_RANKED_OVERFETCH", 3)

	v.SetDefault("DEV_SEED_DEMO", false)
	v.SetDefault("DEV_SEED_FIXTURE", "")
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}

	if c.FeedDefaultPageSize <= 0 {
		return errors.New("FEED_DEFAULT_PAGE_SIZE must be positive")
	}
	if c.FeedMaxPageSize < c.FeedDefaultPageSize {
		return errors.New("FEED_MAX_PAGE_SIZE must be at least FEED_DEFAULT_PAGE_SIZE")
	}
	if c.FeedRankedOverfetch < 1 {
		return errors.New("FEED_RANKED_OVERFETCH must be at least 1")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be within [0, 1]")
	}

	// Strict checks for production
	if c.IsProduction() {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
