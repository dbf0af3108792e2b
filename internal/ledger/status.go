package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"chitfund-backend/internal/models"
	"chitfund-backend/internal/utils"
)

// EffectivePayments drops every payment that a later record supersedes, keeping ledger order
func EffectivePayments(payments []models.Payment) []models.Payment {
	superseded := make(map[string]bool)
	for _, p := range payments {
		if p.Supersedes != "" {
			superseded[p.Supersedes] = true
		}
	}

	effective := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if !superseded[p.ID] {
			effective = append(effective, p)
		}
	}
	return effective
}

// CurrentMonth resolves the month the committee is collecting for. The stored pointer wins;
// the calendar estimate from the start date is only used when no pointer was ever stored.
func CurrentMonth(c *models.Committee, now time.Time) int {
	if c.CurrentMonth > 0 {
		return clampMonth(c.CurrentMonth, c.Duration)
	}
	return clampMonth(utils.CalendarMonthsSince(c.StartDate, now)+1, c.Duration)
}

func clampMonth(month, duration int) int {
	if month > duration {
		month = duration
	}
	if month < 1 {
		month = 1
	}
	return month
}

// Statuses derives every member's payment position from the ledger. The result is never stored.
func Statuses(c *models.Committee, payments []models.Payment, settings models.LateFeeSettings, now time.Time) []models.MemberPaymentStatus {
	current := CurrentMonth(c, now)
	effective := EffectivePayments(payments)
	nextDue := c.StartDate.AddDate(0, current, 0)

	overdue := false
	if current > 1 {
		overdue = utils.DaysBetween(c.DueDate(current), now) > settings.GracePeriodDays
	}

	statuses := make([]models.MemberPaymentStatus, 0, c.MemberCount())
	for _, member := range c.MemberList {
		monthly := make(map[int]*models.Payment, c.Duration)
		for month := 1; month <= c.Duration; month++ {
			monthly[month] = nil
		}

		totalPaid := decimal.Zero
		totalFees := decimal.Zero
		for i := range effective {
			p := &effective[i]
			if p.MemberName != member.Name || !p.IsPaid() {
				continue
			}
			totalPaid = totalPaid.Add(decimal.NewFromFloat(p.Amount))
			totalFees = totalFees.Add(decimal.NewFromFloat(p.LateFees))
			if existing, ok := monthly[p.PaymentMonth]; ok && existing == nil {
				monthly[p.PaymentMonth] = p
			}
		}

		status := models.PaymentStatusPending
		switch {
		case monthly[current] != nil:
			status = models.PaymentStatusPaid
		case overdue:
			status = models.PaymentStatusOverdue
		}

		statuses = append(statuses, models.MemberPaymentStatus{
			MemberName:      member.Name,
			CurrentMonth:    current,
			AmountDue:       ExpectedContribution(c, member.Name, current),
			TotalPaid:       toFloat(totalPaid),
			TotalLateFees:   toFloat(totalFees),
			MonthlyPayments: monthly,
			Status:          status,
			NextDueDate:     nextDue,
		})
	}

	return statuses
}

// PaidCount counts members whose current month is paid
func PaidCount(statuses []models.MemberPaymentStatus) int {
	count := 0
	for _, s := range statuses {
		if s.Status == models.PaymentStatusPaid {
			count++
		}
	}
	return count
}

// Summarize aggregates committee-level collection figures
func Summarize(c *models.Committee, payments []models.Payment, statuses []models.MemberPaymentStatus) models.CommitteeSummary {
	summary := models.CommitteeSummary{
		CommitteeID:    c.ID,
		Status:         c.Status,
		MemberCount:    c.MemberCount(),
		CyclesRecorded: len(c.MonthlyCycles),
	}

	if len(statuses) > 0 {
		summary.CurrentMonth = statuses[0].CurrentMonth
	} else {
		summary.CurrentMonth = clampMonth(c.CurrentMonth, c.Duration)
	}

	for _, s := range statuses {
		switch s.Status {
		case models.PaymentStatusPaid:
			summary.PaidCount++
		case models.PaymentStatusOverdue:
			summary.OverdueCount++
		default:
			summary.PendingCount++
		}
	}

	collected, fees := decimal.Zero, decimal.Zero
	for _, p := range EffectivePayments(payments) {
		if !p.IsPaid() {
			continue
		}
		collected = collected.Add(decimal.NewFromFloat(p.Amount))
		fees = fees.Add(decimal.NewFromFloat(p.LateFees))
	}
	withdrawn := decimal.Zero
	for _, cycle := range c.MonthlyCycles {
		withdrawn = withdrawn.Add(decimal.NewFromFloat(cycle.WithdrawAmount))
	}

	summary.TotalCollected = toFloat(collected)
	summary.TotalLateFees = toFloat(fees)
	summary.TotalWithdrawn = toFloat(withdrawn)
	if remaining := c.Duration - len(c.MonthlyCycles); remaining > 0 {
		summary.MonthsRemaining = remaining
	}
	return summary
}

// OverdueMembers lists the members that are overdue for the current month with the fee accrued so far
func OverdueMembers(c *models.Committee, statuses []models.MemberPaymentStatus, settings models.LateFeeSettings, now time.Time) []models.OverdueMember {
	var overdue []models.OverdueMember
	for _, s := range statuses {
		if s.Status != models.PaymentStatusOverdue {
			continue
		}
		due := c.DueDate(s.CurrentMonth)
		days := utils.DaysBetween(due, now)
		overdue = append(overdue, models.OverdueMember{
			CommitteeID:   c.ID,
			CommitteeName: c.Name,
			MemberName:    s.MemberName,
			Month:         s.CurrentMonth,
			DueDate:       due,
			AmountDue:     s.AmountDue,
			DaysLate:      days,
			AccruedFee:    LateFeeForDays(days, settings),
		})
	}
	return overdue
}
