package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"chitfund-backend/internal/models"
)

// Settle turns a month's withdrawal into a MonthlyCycle record: the balance left in the pool,
// the loss percentage and what every member owes next month. The caller appends the result;
// months are only accepted in increasing order so appending keeps the history sorted.
//
// A head withdrawal carries no redistribution and a last-month withdrawal ends the cycle, so
// in those cases everybody owes the full amount or nothing. Otherwise the withdrawer owes the
// monthly amount and the balance left is shared equally as a discount by everyone else.
func Settle(c *models.Committee, month int, withdrawerName string, withdrawAmount float64, withdrawalDate time.Time) (*models.MonthlyCycle, error) {
	if c == nil || c.MemberCount() == 0 {
		return nil, ErrInvalidCommittee
	}
	if !c.HasMember(withdrawerName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWithdrawer, withdrawerName)
	}
	if !validAmount(withdrawAmount) {
		return nil, ErrInvalidAmount
	}
	if month < 1 || month > c.Duration {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidMonth, month, c.Duration)
	}
	if _, exists := c.CycleFor(month); exists {
		return nil, fmt.Errorf("%w: month %d", ErrDuplicateMonth, month)
	}
	if last := c.LastCycleMonth(); month < last {
		return nil, fmt.Errorf("%w: month %d precedes recorded month %d", ErrInvalidMonth, month, last)
	}

	memberCount := decimal.NewFromInt(int64(c.MemberCount()))
	monthly := decimal.NewFromFloat(c.MonthlyAmount)
	total := memberCount.Mul(monthly)
	balance := total.Sub(decimal.NewFromFloat(withdrawAmount))

	loss := decimal.Zero
	if !total.IsZero() {
		loss = balance.Div(total).Mul(hundred).Round(2)
	}

	cycle := &models.MonthlyCycle{
		Month:                  month,
		WithdrawerName:         withdrawerName,
		WithdrawAmount:         withdrawAmount,
		WithdrawalDate:         withdrawalDate,
		BalanceLeft:            toFloat(balance),
		LossPercentage:         toFloat(loss),
		NextMonthContributions: make(map[string]float64, c.MemberCount()),
		IsHead:                 withdrawerName == c.CommitteeHeadRef,
		IsLastMember:           month == c.Duration,
	}

	switch {
	case cycle.IsHead:
		for _, m := range c.MemberList {
			cycle.NextMonthContributions[m.Name] = c.MonthlyAmount
		}
	case cycle.IsLastMember:
		for _, m := range c.MemberList {
			cycle.NextMonthContributions[m.Name] = 0
		}
	default:
		share := decimal.Zero
		if balance.IsPositive() && c.MemberCount() > 1 {
			share = balance.Div(memberCount.Sub(decimal.NewFromInt(1)))
		}
		reduced := toFloat(monthly.Sub(share))
		for _, m := range c.MemberList {
			if m.Name == withdrawerName {
				cycle.NextMonthContributions[m.Name] = c.MonthlyAmount
				continue
			}
			cycle.NextMonthContributions[m.Name] = reduced
		}
	}

	return cycle, nil
}

// ExpectedContribution returns what a member owes for the given month: the amount fixed by the
// previous month's settlement when one exists, the plain monthly amount otherwise.
func ExpectedContribution(c *models.Committee, memberName string, month int) float64 {
	if prev, ok := c.CycleFor(month - 1); ok {
		if amount, ok := prev.NextMonthContributions[memberName]; ok {
			return amount
		}
	}
	return c.MonthlyAmount
}
