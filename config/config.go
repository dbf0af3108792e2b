package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chitfund-backend/internal/models"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string

	// Ledger store configuration
	StoreDriver   string
	DatabaseURL   string
	RedisURL      string
	RedisPassword string
	LockTTL       time.Duration
	LockWait      time.Duration

	// Rate Limiting Configuration
	RateLimitRequests int
	RateLimitWindow   int
	MaxRequestSize    int64

	// Origins admitted by CORS in production
	CORSAllowedOrigins []string

	// Logging Configuration
	LogLevel string

	// Overdue sweep
	OverdueSweepEnabled  bool
	OverdueSweepSchedule string
	Timezone             string

	// Defaults applied to committees without their own late fee settings
	DefaultLateFee models.LateFeeSettings
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DatabaseURL:   getEnv("DATABASE_URL", "chitfund.db"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		LockTTL:       time.Duration(getEnvAsInt("LOCK_TTL_SECONDS", 10)) * time.Second,
		LockWait:      time.Duration(getEnvAsInt("LOCK_WAIT_SECONDS", 5)) * time.Second,

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		MaxRequestSize:    getEnvAsInt64("MAX_REQUEST_SIZE", 1024*1024), // 1MB

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		OverdueSweepEnabled:  getEnvAsBool("OVERDUE_SWEEP_ENABLED", true),
		OverdueSweepSchedule: getEnv("OVERDUE_SWEEP_SCHEDULE", "0 9 * * *"), // every day at 09:00
		Timezone:             getEnv("TIMEZONE", "Asia/Kolkata"),

		DefaultLateFee: models.LateFeeSettings{
			DailyRate:       getEnvAsFloat("DEFAULT_LATE_FEE_DAILY_RATE", 10),
			GracePeriodDays: getEnvAsInt("DEFAULT_GRACE_PERIOD_DAYS", 7),
			MaxLateFee:      getEnvAsFloat("DEFAULT_MAX_LATE_FEE", 500),
		},
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %s", c.Port)
	}

	switch c.StoreDriver {
	case "sqlite":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for the sqlite store")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("redis URL is required for the redis store")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid store driver: %s", c.StoreDriver)
	}

	if c.LockWait <= 0 || c.LockTTL <= 0 {
		return fmt.Errorf("lock wait and TTL must be positive")
	}

	d := c.DefaultLateFee
	if d.DailyRate < 0 || d.GracePeriodDays < 0 || d.MaxLateFee < 0 {
		return fmt.Errorf("default late fee settings must not be negative")
	}

	return nil
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = "sqlite"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "chitfund.db"
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Second
	}
	if c.LockWait <= 0 {
		c.LockWait = 5 * time.Second
	}
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %s, StoreDriver: %s}", c.Environment, c.Port, c.StoreDriver)
}
