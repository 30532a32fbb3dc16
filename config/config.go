package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Lookup LookupConfig
	Cache  CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LookupConfig holds Open Food Facts lookup configuration
type LookupConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

// CacheConfig holds product-cache configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory" or "bolt"
	Path          string        `mapstructure:"path"` // bolt file location
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutriscan/")

	// Environment variable settings
	v.SetEnvPrefix("NUTRISCAN")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Lookup defaults
	v.SetDefault("lookup.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("lookup.timeout", "30s")
	v.SetDefault("lookup.rate_per_second", 2.0)
	v.SetDefault("lookup.burst", 5)

	// Cache defaults
	v.SetDefault("cache.type", "bolt")
	v.SetDefault("cache.path", "nutriscan-cache.db")
	v.SetDefault("cache.ttl", "168h") // 7 days
	v.SetDefault("cache.sweep_interval", "6h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Lookup.BaseURL == "" {
		return fmt.Errorf("lookup base URL is required (set NUTRISCAN_LOOKUP_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "bolt" {
		return fmt.Errorf("cache type must be 'memory' or 'bolt', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "bolt" && config.Cache.Path == "" {
		return fmt.Errorf("cache path is required when cache type is 'bolt'")
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got: %s", config.Cache.TTL)
	}

	return nil
}
