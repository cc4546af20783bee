// Package config loads application settings from the environment, an
// optional .env file and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds connection and schema settings.
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
	// IDOffset is the first product ID the identity sequence hands out.
	IDOffset int64
}

// ProductConfig holds the business limits applied by the service.
type ProductConfig struct {
	MaxStock int
}

// MessagesConfig holds the client-facing texts that replace internal details.
type MessagesConfig struct {
	ProductNotFound string
	Generic         string
}

// RabbitMQConfig holds event publishing settings. An empty URL disables events.
type RabbitMQConfig struct {
	URL          string
	Exchange     string
	AuditEnabled bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Product  ProductConfig
	Messages MessagesConfig
	RabbitMQ RabbitMQConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=products port=5432 sslmode=disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 10)
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 100)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_LOG_LEVEL", "warn")

	v.SetDefault("PRODUCT_MAX_STOCK", 1000)
	v.SetDefault("PRODUCT_ID_OFFSET", 100000)

	v.SetDefault("ERROR_PRODUCT_NOT_FOUND", "Product ID not found.")
	v.SetDefault("ERROR_GENERIC", "An unexpected error occurred. Please try again later.")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "products")
	v.SetDefault("EVENTS_AUDIT_ENABLED", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_PREFIX", "product_api")
}

// Load reads .env (if present), config.yaml (if present) and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("APP_PORT"),
			Env:             v.GetString("APP_ENV"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			LogLevel:        parseLogLevel(v.GetString("DATABASE_LOG_LEVEL")),
			IDOffset:        v.GetInt64("PRODUCT_ID_OFFSET"),
		},
		Product: ProductConfig{
			MaxStock: v.GetInt("PRODUCT_MAX_STOCK"),
		},
		Messages: MessagesConfig{
			ProductNotFound: v.GetString("ERROR_PRODUCT_NOT_FOUND"),
			Generic:         v.GetString("ERROR_GENERIC"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:          v.GetString("RABBITMQ_URL"),
			Exchange:     v.GetString("RABBITMQ_EXCHANGE"),
			AuditEnabled: v.GetBool("EVENTS_AUDIT_ENABLED"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Metrics: MetricsConfig{
			Prefix: v.GetString("METRICS_PREFIX"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Product.MaxStock <= 0 {
		return fmt.Errorf("PRODUCT_MAX_STOCK must be positive, got %d", c.Product.MaxStock)
	}
	if c.Database.IDOffset < 1 {
		return fmt.Errorf("PRODUCT_ID_OFFSET must be at least 1, got %d", c.Database.IDOffset)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// LogFields returns the non-secret settings for the startup log line.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("port", c.Server.Port),
		zap.String("db_driver", c.Database.Driver),
		zap.Int("max_stock", c.Product.MaxStock),
		zap.Int64("id_offset", c.Database.IDOffset),
		zap.Bool("events_enabled", c.RabbitMQ.URL != ""),
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
