package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chitfund-backend/internal/models"
)

var standardSettings = models.LateFeeSettings{DailyRate: 10, GracePeriodDays: 7, MaxLateFee: 500}

func TestLateFee(t *testing.T) {
	due := day(0)

	tests := []struct {
		name     string
		paidOn   time.Time
		settings models.LateFeeSettings
		expected float64
	}{
		{"twenty days late", day(20), standardSettings, 130},
		{"on the due date", day(0), standardSettings, 0},
		{"inside grace period", day(7), standardSettings, 0},
		{"first day after grace", day(8), standardSettings, 10},
		{"early payment", day(-3), standardSettings, 0},
		{"capped at max", day(200), standardSettings, 500},
		{"no grace", day(3), models.LateFeeSettings{DailyRate: 2.5, MaxLateFee: 100}, 7.5},
		{"zero cap", day(30), models.LateFeeSettings{DailyRate: 10, GracePeriodDays: 1}, 0},
		{"partial day is floored", due.Add(8*24*time.Hour - time.Minute), standardSettings, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paidOn := tt.paidOn
			assert.Equal(t, tt.expected, LateFee(&due, &paidOn, tt.settings))
		})
	}
}

func TestLateFeeMissingDates(t *testing.T) {
	due := day(0)
	paidOn := day(30)

	assert.Zero(t, LateFee(nil, &paidOn, standardSettings))
	assert.Zero(t, LateFee(&due, nil, standardSettings))
	assert.Zero(t, LateFee(nil, nil, standardSettings))
}

func TestLateFeeBoundedAndMonotonic(t *testing.T) {
	settings := []models.LateFeeSettings{
		standardSettings,
		{DailyRate: 0, GracePeriodDays: 0, MaxLateFee: 0},
		{DailyRate: 3.33, GracePeriodDays: 2, MaxLateFee: 50},
		{DailyRate: 100, GracePeriodDays: 30, MaxLateFee: 1000},
	}

	for _, s := range settings {
		previous := 0.0
		for days := -10; days <= 400; days++ {
			fee := LateFeeForDays(days, s)
			if days <= s.GracePeriodDays {
				assert.Zero(t, fee, "days=%d settings=%+v", days, s)
			}
			assert.GreaterOrEqual(t, fee, 0.0)
			assert.LessOrEqual(t, fee, s.MaxLateFee)
			assert.GreaterOrEqual(t, fee, previous, "fee must not decrease at day %d", days)
			previous = fee
		}
	}
}

func TestValidateSettings(t *testing.T) {
	assert.NoError(t, ValidateSettings(standardSettings))
	assert.NoError(t, ValidateSettings(models.LateFeeSettings{}))
	assert.ErrorIs(t, ValidateSettings(models.LateFeeSettings{DailyRate: -1}), ErrInvalidSettings)
	assert.ErrorIs(t, ValidateSettings(models.LateFeeSettings{GracePeriodDays: -2}), ErrInvalidSettings)
	assert.ErrorIs(t, ValidateSettings(models.LateFeeSettings{MaxLateFee: -5}), ErrInvalidSettings)
}
