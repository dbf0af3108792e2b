package ledger

import (
	"time"

	"chitfund-backend/internal/models"
)

var startDate = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

func threeMemberCommittee() *models.Committee {
	return &models.Committee{
		ID:   "committee-1",
		Name: "Shree Ganesh Chit",
		MemberList: []models.Member{
			{Name: "A"}, {Name: "B"}, {Name: "C"},
		},
		MonthlyAmount:    1000,
		Duration:         3,
		StartDate:        startDate,
		CommitteeHeadRef: "A",
		Status:           models.CommitteeStatusActive,
		CurrentMonth:     1,
	}
}

func paid(id, member string, month int, amount float64) models.Payment {
	return models.Payment{
		ID:           id,
		MemberName:   member,
		Amount:       amount,
		PaymentMode:  models.PaymentModeCash,
		PaymentMonth: month,
		Status:       models.PaymentStatusPaid,
	}
}

func day(offset int) time.Time {
	return startDate.AddDate(0, 0, offset)
}
