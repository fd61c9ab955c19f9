package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Study     StudyConfig     `mapstructure:"study" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel              string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// RequestTimeout is the per-request deadline.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	QueryTimeoutSeconds    int    `mapstructure:"query_timeout_seconds" validate:"gt=0"`
}

// QueryTimeout bounds a single store operation.
func (c DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// ConnMaxLifetime is how long a pooled connection may be reused.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// StudyConfig controls card selection and streak bookkeeping.
type StudyConfig struct {
	DefaultLimit    int    `mapstructure:"default_limit" validate:"gt=0,ltefield=MaxLimit"`
	DefaultNewLimit int    `mapstructure:"default_new_limit" validate:"gt=0"`
	MaxLimit        int    `mapstructure:"max_limit" validate:"gt=0,lte=500"`
	TimeZone        string `mapstructure:"time_zone" validate:"required,timezone"`
	StreakSweepCron string `mapstructure:"streak_sweep_cron" validate:"required,cron"`
}

// Location loads the configured study time zone.
func (c StudyConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid study time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// RateLimitConfig limits review submissions per learner.
type RateLimitConfig struct {
	ReviewsPerSecond float64 `mapstructure:"reviews_per_second" validate:"gt=0"`
	Burst            int     `mapstructure:"burst" validate:"gt=0"`
}
