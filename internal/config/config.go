package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ServiceName    = "icecream-stock"
	ServiceVersion = "0.1.0"
)

type Config struct {
	HTTPAddr            string
	GRPCAddr            string
	DBDriver            string
	DatabaseURL         string
	DBMaxOpenConns      int
	DBMaxIdleConns      int
	DBConnMaxLifetime   time.Duration
	RedisAddr           string
	RedisChannel        string
	CORSAllowedOrigins  []string
	LogLevel            string
	HealthCheckInterval time.Duration
	ShutdownTimeout     time.Duration
}

// LoadConfig reads the environment, after merging a .env file when one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	cfg := &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":3000"),
		GRPCAddr:            getEnv("GRPC_ADDR", ":50051"),
		DBDriver:            getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:      getEnvInt("DB_MAX_OPEN_CONNS", 50, &errs),
		DBMaxIdleConns:      getEnvInt("DB_MAX_IDLE_CONNS", 25, &errs),
		DBConnMaxLifetime:   getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute, &errs),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisChannel:        getEnv("REDIS_CHANNEL", "ice_creams:stock_updated"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		HealthCheckInterval: getEnvDuration("HEALTH_CHECK_INTERVAL", 10*time.Second, &errs),
		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second, &errs),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case "memory":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres, mysql or memory, got %q", c.DBDriver)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.GRPCAddr == "" {
		return fmt.Errorf("GRPC_ADDR is required")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.HealthCheckInterval <= 0 {
		return fmt.Errorf("HEALTH_CHECK_INTERVAL must be positive")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
