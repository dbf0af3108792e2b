package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"chitfund-backend/internal/models"
	"chitfund-backend/internal/utils"
)

// LateFee computes the fee owed for paying on paymentDate a contribution due on dueDate.
// Missing dates, early payments and payments inside the grace period owe nothing.
func LateFee(dueDate, paymentDate *time.Time, settings models.LateFeeSettings) float64 {
	if dueDate == nil || paymentDate == nil {
		return 0
	}
	return LateFeeForDays(utils.DaysBetween(*dueDate, *paymentDate), settings)
}

// LateFeeForDays computes the fee for a payment daysLate days after its due date
func LateFeeForDays(daysLate int, settings models.LateFeeSettings) float64 {
	grace := settings.GracePeriodDays
	if grace < 0 {
		grace = 0
	}
	if daysLate <= grace {
		return 0
	}

	rate := decimal.NewFromFloat(settings.DailyRate)
	if rate.IsNegative() {
		return 0
	}
	fee := rate.Mul(decimal.NewFromInt(int64(daysLate - grace)))

	limit := decimal.NewFromFloat(settings.MaxLateFee)
	if limit.IsNegative() {
		limit = decimal.Zero
	}
	fee = decimal.Min(fee, limit)
	return toFloat(fee.Round(2))
}

// ValidateSettings checks late fee settings before they are stored
func ValidateSettings(settings models.LateFeeSettings) error {
	if !validAmount(settings.DailyRate) || !validAmount(settings.MaxLateFee) || settings.GracePeriodDays < 0 {
		return ErrInvalidSettings
	}
	return nil
}
