// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gurkanbulca/taskboard/internal/middleware"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Board    BoardConfig
	Log      LogConfig
}

type ServerConfig struct {
	GRPCPort         string
	HTTPPort         string
	Environment      string
	EnableReflection bool
	AutoMigrate      bool
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// DSN overrides the host/port/user fields when set
	DSN string
}

type RedisConfig struct {
	URL      string
	BoardTTL time.Duration
}

type JWTConfig struct {
	Secret        string
	TokenDuration time.Duration
}

// BoardConfig holds limits for board operations
type BoardConfig struct {
	MaxReorderBatch int
	MaxTitleLength  int
	ReorderTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

const devJWTSecret = "dev-secret-change-in-production"

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			GRPCPort:         getEnv("GRPC_PORT", "50051"),
			HTTPPort:         getEnv("HTTP_PORT", "8080"),
			Environment:      getEnv("ENVIRONMENT", "development"),
			EnableReflection: getEnvAsBool("GRPC_REFLECTION", false),
			AutoMigrate:      getEnvAsBool("AUTO_MIGRATE", true),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taskboard"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			DSN:      os.Getenv("DB_DSN"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			BoardTTL: getEnvAsDuration("REDIS_BOARD_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", devJWTSecret),
			TokenDuration: getEnvAsDuration("JWT_TOKEN_DURATION", 24*time.Hour),
		},
		Board: BoardConfig{
			MaxReorderBatch: getEnvAsInt("BOARD_MAX_REORDER_BATCH", 500),
			MaxTitleLength:  getEnvAsInt("BOARD_MAX_TITLE_LENGTH", 200),
			ReorderTimeout:  getEnvAsDuration("BOARD_REORDER_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

// ValidateConfig checks the loaded configuration
func (c *Config) ValidateConfig() error {
	var errs []error

	if c.Server.GRPCPort == "" {
		errs = append(errs, errors.New("GRPC_PORT is required"))
	}
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.Board.MaxReorderBatch <= 0 {
		errs = append(errs, errors.New("BOARD_MAX_REORDER_BATCH must be greater than zero"))
	}
	if c.Board.MaxTitleLength <= 0 {
		errs = append(errs, errors.New("BOARD_MAX_TITLE_LENGTH must be greater than zero"))
	}
	if c.JWT.TokenDuration <= 0 {
		errs = append(errs, errors.New("JWT_TOKEN_DURATION must be positive"))
	}
	if !c.IsDevelopment() {
		if c.JWT.Secret == devJWTSecret || len(c.JWT.Secret) < 32 {
			errs = append(errs, errors.New("JWT_SECRET must be set to at least 32 characters outside development"))
		}
		if c.Server.EnableReflection {
			errs = append(errs, errors.New("GRPC_REFLECTION must be disabled outside development"))
		}
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

// DatabaseDSN builds the connection string for the configured driver
func (c *Config) DatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	if c.Database.Driver == "sqlite3" {
		return "file:" + c.Database.DBName + ".db?_fk=1&_busy_timeout=5000&_journal_mode=WAL"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.DBName, c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}

// ToValidationConfig returns the request limits used by the validation
// interceptor
func (c *Config) ToValidationConfig() *middleware.ValidationConfig {
	v := middleware.DefaultValidationConfig()
	v.MaxReorderBatch = c.Board.MaxReorderBatch
	v.MaxTitleLength = c.Board.MaxTitleLength
	return v
}
