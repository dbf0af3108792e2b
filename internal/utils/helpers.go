package utils

import (
	"fmt"
	"math"
	"time"
)

// Location used for calendar arithmetic (due dates, day counts)
var Location *time.Location

func init() {
	// Committees are run on Indian Standard Time unless configured otherwise.
	// Without tzdata the fixed offset is equivalent; IST has no daylight saving.
	if err := SetLocation("Asia/Kolkata"); err != nil {
		Location = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// SetLocation switches the calendar timezone
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

// Now returns the current time in the configured location
func Now() time.Time {
	return time.Now().In(Location)
}

// FormatCurrency formats a number as Indian Rupee currency
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// DaysBetween returns floor((b - a) in days). Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// CalendarMonthsSince counts month boundaries crossed from start to now.
// A partial month does not count until the day of month is reached.
func CalendarMonthsSince(start, now time.Time) int {
	start = start.In(Location)
	now = now.In(Location)
	months := (now.Year()-start.Year())*12 + int(now.Month()-start.Month())
	if now.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
