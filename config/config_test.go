package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "STORE_DRIVER", "DATABASE_URL", "DEFAULT_GRACE_PERIOD_DAYS", "LOCK_WAIT_SECONDS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "chitfund.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.LockWait)
	assert.Equal(t, 10.0, cfg.DefaultLateFee.DailyRate)
	assert.Equal(t, 7, cfg.DefaultLateFee.GracePeriodDays)
	assert.Equal(t, 500.0, cfg.DefaultLateFee.MaxLateFee)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("DEFAULT_LATE_FEE_DAILY_RATE", "12.5")
	t.Setenv("DEFAULT_GRACE_PERIOD_DAYS", "not-a-number")
	t.Setenv("OVERDUE_SWEEP_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ledger.example.com, ,https://admin.example.com")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.Equal(t, 12.5, cfg.DefaultLateFee.DailyRate)
	assert.Equal(t, []string{"https://ledger.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 7, cfg.DefaultLateFee.GracePeriodDays)
	assert.False(t, cfg.OverdueSweepEnabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Environment = "staging"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Port = "0"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.StoreDriver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.StoreDriver = "memory"
	cfg.DatabaseURL = ""
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.DefaultLateFee.MaxLateFee = -1
	assert.Error(t, cfg.Validate())
}
