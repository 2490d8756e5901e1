// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL). Empty disables the primary store and the
	// gateway runs on Redis alone; both empty runs fully in memory.
	DatabaseURL string `env:"DATABASE_URL"`

	// Cache / secondary store (Redis)
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting
	RateLimitEnabled           bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRequestsPerMinute int  `env:"RATE_LIMIT_RPM" envDefault:"300"`
	RateLimitBurst             int  `env:"RATE_LIMIT_BURST" envDefault:"30"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 10MB; imports carry
	// full engagement histories)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"10485760"`

	// Platform credential fallbacks. Used when a scope has no stored
	// API config of its own.
	YouTubeAPIKey      string `env:"YOUTUBE_API_KEY"`
	ServiceNowInstance string `env:"SERVICENOW_INSTANCE"`
	ServiceNowUsername string `env:"SERVICENOW_USERNAME"`
	ServiceNowPassword string `env:"SERVICENOW_PASSWORD"`
	LinkedInClientID   string `env:"LINKEDIN_CLIENT_ID"`
	LinkedInSecret     string `env:"LINKEDIN_CLIENT_SECRET"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// PlatformDefaults builds the environment-level API config used as a
// base under each scope's stored config.
func (c *Config) PlatformDefaults() model.APIConfig {
	return model.APIConfig{
		YouTube: model.YouTubeConfig{APIKey: c.YouTubeAPIKey},
		ServiceNow: model.ServiceNowConfig{
			Instance: c.ServiceNowInstance,
			Username: c.ServiceNowUsername,
			Password: c.ServiceNowPassword,
		},
		LinkedIn: model.LinkedInConfig{
			ClientID:     c.LinkedInClientID,
			ClientSecret: c.LinkedInSecret,
		},
	}
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
