package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Store    StoreConfig    `mapstructure:"store"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig describes the two pricing APIs
type UpstreamConfig struct {
	League               string   `mapstructure:"league"`
	NinjaBaseURL         string   `mapstructure:"ninja_base_url"`
	ScoutBaseURL         string   `mapstructure:"scout_base_url"`
	Timeout              int      `mapstructure:"timeout"`
	RetryCount           int      `mapstructure:"retry_count"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`
	UserAgent            string   `mapstructure:"user_agent"`
}

func (u UpstreamConfig) TimeoutDuration() time.Duration {
	return time.Duration(u.Timeout) * time.Second
}

// DefaultsConfig holds the form values used when a field is left empty
type DefaultsConfig struct {
	MinValue         float64 `mapstructure:"min_value"`
	MinValueCurrency float64 `mapstructure:"min_value_currency"`
	WaystoneTier     int     `mapstructure:"waystone_tier"`
}

// StoreConfig selects where generated documents are kept for download
type StoreConfig struct {
	Kind string `mapstructure:"kind"` // memory or redis
	TTL  int    `mapstructure:"ttl"`  // seconds
}

func (s StoreConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// DatabaseConfig holds the optional run archive database
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path searches for config.yaml in the current directory; a missing
// file leaves the defaults in place.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("config.yaml not found, using defaults")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Upstream.League == "" {
		return fmt.Errorf("upstream.league must not be empty")
	}
	if c.Upstream.MaxRequestsPerSecond < 0 {
		return fmt.Errorf("upstream.max_requests_per_second must not be negative")
	}
	switch c.Store.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown store.kind %q", c.Store.Kind)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 300)

	v.SetDefault("upstream.league", "Rise of the Abyssal")
	v.SetDefault("upstream.ninja_base_url", "https://poe.ninja")
	v.SetDefault("upstream.scout_base_url", "https://poe2scout.com")
	v.SetDefault("upstream.timeout", 60)
	v.SetDefault("upstream.retry_count", 0)
	v.SetDefault("upstream.max_requests_per_second", 0)
	v.SetDefault("upstream.proxies", []string{})
	v.SetDefault("upstream.user_agent", "poe2-pickit/1.0")

	v.SetDefault("defaults.min_value", 10.0)
	v.SetDefault("defaults.min_value_currency", 1.0)
	v.SetDefault("defaults.waystone_tier", 1)

	v.SetDefault("store.kind", "memory")
	v.SetDefault("store.ttl", 3600)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "pickit")
	v.SetDefault("database.user", "pickit")
	v.SetDefault("database.password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// ConfigureLogging applies the log settings to the global logrus logger.
func ConfigureLogging(cfg LogConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Invalid log level '%s', using 'info'", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
