package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Enrichment EnrichmentConfig
	Cache      CacheConfig
	Import     ImportConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects and configures the catalog store
type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// EnrichmentConfig holds product page lookup configuration
type EnrichmentConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Concurrency       int           `mapstructure:"concurrency"`
	UserAgent         string        `mapstructure:"user_agent"`
	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	GeminiModel       string        `mapstructure:"gemini_model"`
}

// CacheConfig holds description cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ImportConfig holds batch import configuration
type ImportConfig struct {
	YieldEvery       int    `mapstructure:"yield_every"`
	FallbackCategory string `mapstructure:"fallback_category"`
	RulesFile        string `mapstructure:"rules_file"`
	DefaultStock     int    `mapstructure:"default_stock"`
	MaxInputBytes    int64  `mapstructure:"max_input_bytes"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/catalog-import/")

	// Environment variable settings
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Storage defaults
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "catalog.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.auto_migrate", true)

	// Enrichment defaults
	v.SetDefault("enrichment.enabled", true)
	v.SetDefault("enrichment.timeout", "10s")
	v.SetDefault("enrichment.requests_per_second", 2.0)
	v.SetDefault("enrichment.burst", 5)
	v.SetDefault("enrichment.concurrency", 5)
	v.SetDefault("enrichment.user_agent", "CatalogImport/1.0")
	v.SetDefault("enrichment.gemini_api_key", "")
	v.SetDefault("enrichment.gemini_model", "gemini-2.5-flash")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Import defaults
	v.SetDefault("import.yield_every", 5)
	v.SetDefault("import.fallback_category", "outros")
	v.SetDefault("import.rules_file", "")
	v.SetDefault("import.default_stock", 0)
	v.SetDefault("import.max_input_bytes", 2<<20)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Storage.Driver {
	case "sqlite":
		if config.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when storage driver is 'sqlite'")
		}
	case "postgres":
		if config.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is required when storage driver is 'postgres' (set CATALOG_STORAGE_POSTGRES_DSN)")
		}
	default:
		return fmt.Errorf("storage driver must be 'sqlite' or 'postgres', got: %s", config.Storage.Driver)
	}

	if config.Enrichment.Concurrency < 1 {
		return fmt.Errorf("enrichment concurrency must be at least 1, got: %d", config.Enrichment.Concurrency)
	}

	if config.Enrichment.RequestsPerSecond <= 0 {
		return fmt.Errorf("enrichment requests per second must be positive, got: %v", config.Enrichment.RequestsPerSecond)
	}

	if config.Import.YieldEvery < 1 {
		return fmt.Errorf("import yield_every must be at least 1, got: %d", config.Import.YieldEvery)
	}

	if config.Import.DefaultStock < 0 {
		return fmt.Errorf("import default_stock cannot be negative, got: %d", config.Import.DefaultStock)
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Log.Level, err)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
