package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitfund-backend/internal/models"
)

func TestSettleRegularWithdrawal(t *testing.T) {
	c := threeMemberCommittee()

	cycle, err := Settle(c, 1, "B", 2700, day(10))
	require.NoError(t, err)

	assert.Equal(t, 1, cycle.Month)
	assert.Equal(t, 300.0, cycle.BalanceLeft)
	assert.Equal(t, 10.0, cycle.LossPercentage)
	assert.False(t, cycle.IsHead)
	assert.False(t, cycle.IsLastMember)
	assert.Equal(t, map[string]float64{"A": 850, "B": 1000, "C": 850}, cycle.NextMonthContributions)
}

func TestSettleHeadWithdrawal(t *testing.T) {
	c := threeMemberCommittee()

	cycle, err := Settle(c, 2, "A", 3000, day(40))
	require.NoError(t, err)

	assert.Zero(t, cycle.BalanceLeft)
	assert.Zero(t, cycle.LossPercentage)
	assert.True(t, cycle.IsHead)
	for _, m := range c.MemberList {
		assert.Equal(t, 1000.0, cycle.NextMonthContributions[m.Name])
	}
}

func TestSettleLastMonth(t *testing.T) {
	c := threeMemberCommittee()

	cycle, err := Settle(c, 3, "C", 2500, day(70))
	require.NoError(t, err)

	assert.True(t, cycle.IsLastMember)
	assert.Equal(t, 500.0, cycle.BalanceLeft)
	assert.Len(t, cycle.NextMonthContributions, 3)
	for _, amount := range cycle.NextMonthContributions {
		assert.Zero(t, amount)
	}
}

func TestSettleRedistributionSum(t *testing.T) {
	c := &models.Committee{
		MemberList:       []models.Member{{Name: "P"}, {Name: "Q"}, {Name: "R"}, {Name: "S"}, {Name: "T"}},
		MonthlyAmount:    2000,
		Duration:         5,
		CommitteeHeadRef: "P",
	}

	for _, withdraw := range []float64{10000, 9000, 8123.45, 7000, 100} {
		cycle, err := Settle(c, 2, "R", withdraw, day(30))
		require.NoError(t, err)

		assert.Equal(t, 2000.0, cycle.NextMonthContributions["R"])
		others := 0.0
		for name, amount := range cycle.NextMonthContributions {
			if name != "R" {
				others += amount
			}
		}
		assert.InDelta(t, 2000*4-cycle.BalanceLeft, others, 1e-6, "withdraw=%v", withdraw)
	}
}

func TestSettleOverdrawnPool(t *testing.T) {
	c := threeMemberCommittee()

	cycle, err := Settle(c, 1, "C", 3300, day(10))
	require.NoError(t, err)

	assert.Equal(t, -300.0, cycle.BalanceLeft)
	assert.Equal(t, -10.0, cycle.LossPercentage)
	assert.Equal(t, map[string]float64{"A": 1000, "B": 1000, "C": 1000}, cycle.NextMonthContributions)
}

func TestSettleRoundsLossPercentage(t *testing.T) {
	c := threeMemberCommittee()

	cycle, err := Settle(c, 1, "B", 2900, day(10))
	require.NoError(t, err)
	assert.Equal(t, 3.33, cycle.LossPercentage)
}

func TestSettleSingleMember(t *testing.T) {
	c := &models.Committee{
		MemberList:       []models.Member{{Name: "Solo"}},
		MonthlyAmount:    500,
		Duration:         2,
		CommitteeHeadRef: "Someone else",
	}

	cycle, err := Settle(c, 1, "Solo", 400, day(1))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Solo": 500}, cycle.NextMonthContributions)
}

func TestSettleErrors(t *testing.T) {
	c := threeMemberCommittee()
	c.MonthlyCycles = []models.MonthlyCycle{{Month: 1, WithdrawerName: "B"}}

	_, err := Settle(c, 2, "Z", 100, day(1))
	assert.ErrorIs(t, err, ErrInvalidWithdrawer)

	_, err = Settle(c, 1, "C", 100, day(1))
	assert.ErrorIs(t, err, ErrDuplicateMonth)

	_, err = Settle(c, 2, "C", -1, day(1))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Settle(c, 4, "C", 100, day(1))
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = Settle(&models.Committee{Duration: 3}, 1, "C", 100, day(1))
	assert.ErrorIs(t, err, ErrInvalidCommittee)
}

func TestSettleRejectsEarlierMonth(t *testing.T) {
	c := threeMemberCommittee()
	c.MonthlyCycles = []models.MonthlyCycle{{Month: 2, WithdrawerName: "A"}}

	_, err := Settle(c, 1, "B", 2700, day(1))
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = Settle(c, 2, "B", 2700, day(1))
	assert.ErrorIs(t, err, ErrDuplicateMonth)

	cycle, err := Settle(c, 3, "B", 2700, day(1))
	require.NoError(t, err)
	assert.Equal(t, 3, cycle.Month)
}

func TestExpectedContribution(t *testing.T) {
	c := threeMemberCommittee()
	cycle, err := Settle(c, 1, "B", 2700, day(10))
	require.NoError(t, err)
	c.MonthlyCycles = append(c.MonthlyCycles, *cycle)

	assert.Equal(t, 1000.0, ExpectedContribution(c, "A", 1))
	assert.Equal(t, 850.0, ExpectedContribution(c, "A", 2))
	assert.Equal(t, 1000.0, ExpectedContribution(c, "B", 2))
	assert.Equal(t, 1000.0, ExpectedContribution(c, "C", 3))
}
