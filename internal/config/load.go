package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LINGO"

// envKeys are bound explicitly so that values set only in the environment
// are seen by Unmarshal.
var envKeys = []string{
	"server.port",
	"server.log_level",
	"server.request_timeout_seconds",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime_minutes",
	"database.query_timeout_seconds",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"study.default_limit",
	"study.default_new_limit",
	"study.max_limit",
	"study.time_zone",
	"study.streak_sweep_cron",
	"rate_limit.reviews_per_second",
	"rate_limit.burst",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout_seconds", 30)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("database.query_timeout_seconds", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("study.default_limit", 20)
	v.SetDefault("study.default_new_limit", 10)
	v.SetDefault("study.max_limit", 500)
	v.SetDefault("study.time_zone", "UTC")
	v.SetDefault("study.streak_sweep_cron", "5 0 * * *")

	v.SetDefault("rate_limit.reviews_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 10)
}

// Load reads configuration from a local .env file, ./config.yaml and
// LINGO_-prefixed environment variables, in increasing precedence.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return load(v)
}

// LoadFile is Load with an explicit YAML file and without .env handling.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
