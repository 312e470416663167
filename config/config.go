package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	WebPort                int           `mapstructure:"WEB_PORT"`
	LogLevel               string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL            string        `mapstructure:"DATABASE_URL"`
	PostgresURL            string        `mapstructure:"POSTGRES_URL"`
	ExternalDatabaseURL    string        `mapstructure:"EXTERNAL_DATABASE_URL"`
	MatchThreshold         float64       `mapstructure:"MATCH_THRESHOLD"`
	RACrawlerBaseURL       string        `mapstructure:"RA_CRAWLER_BASE_URL"`
	ResolverTimeoutSeconds time.Duration `mapstructure:"RESOLVER_TIMEOUT_SECONDS"`
	LabelCacheSize         int           `mapstructure:"LABEL_CACHE_SIZE"`
	RateLimitPerMin        int           `mapstructure:"RATE_LIMIT_PER_MIN"`
	RateLimitBurstSize     int           `mapstructure:"RATE_LIMIT_BURST_SIZE"`
}

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // For running locally
	viper.AddConfigPath("../")      // For running from docker subdir
	viper.AddConfigPath("./config") // Common config folder
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("WEB_PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("POSTGRES_URL", "")
	viper.SetDefault("EXTERNAL_DATABASE_URL", "")
	viper.SetDefault("MATCH_THRESHOLD", 0.70)
	viper.SetDefault("RA_CRAWLER_BASE_URL", "https://ra-crawler.onrender.com")
	viper.SetDefault("RESOLVER_TIMEOUT_SECONDS", 5)
	viper.SetDefault("LABEL_CACHE_SIZE", 64)
	viper.SetDefault("RATE_LIMIT_PER_MIN", 60)
	viper.SetDefault("RATE_LIMIT_BURST_SIZE", 10)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			// Fallback if logger not available (should not happen in practice)
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	// Convert seconds to proper time.Duration
	config.ResolverTimeoutSeconds = config.ResolverTimeoutSeconds * time.Second

	return &config
}

// DatabaseConnString returns the first configured connection string,
// preferring the explicit DATABASE_URL over the Render-style fallbacks.
func (c *Config) DatabaseConnString() string {
	for _, url := range []string{c.DatabaseURL, c.PostgresURL, c.ExternalDatabaseURL} {
		if url != "" {
			return url
		}
	}
	return ""
}

// MatchThresholdValid reports whether the configured default threshold is
// usable as a similarity cutoff.
func (c *Config) MatchThresholdValid() bool {
	return c.MatchThreshold >= 0.0 && c.MatchThreshold <= 1.0
}
