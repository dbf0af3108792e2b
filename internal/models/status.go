package models

import (
	"time"
)

// LateFeeSettings configures late fee accrual for a committee
type LateFeeSettings struct {
	DailyRate       float64 `json:"dailyRate" yaml:"dailyRate" binding:"gte=0"`
	GracePeriodDays int     `json:"gracePeriodDays" yaml:"gracePeriodDays" binding:"gte=0"`
	MaxLateFee      float64 `json:"maxLateFee" yaml:"maxLateFee" binding:"gte=0"`
}

// LateFeeRequest represents an ad-hoc late fee computation
type LateFeeRequest struct {
	DueDate     *time.Time       `json:"dueDate"`
	PaymentDate *time.Time       `json:"paymentDate"`
	Settings    *LateFeeSettings `json:"settings,omitempty"`
	CommitteeID string           `json:"committeeId,omitempty"`
}

// MemberPaymentStatus is derived on every read from the payment ledger. Never persisted.
type MemberPaymentStatus struct {
	MemberName      string           `json:"memberName"`
	CurrentMonth    int              `json:"currentMonth"`
	AmountDue       float64          `json:"amountDue"`
	TotalPaid       float64          `json:"totalPaid"`
	TotalLateFees   float64          `json:"totalLateFees"`
	MonthlyPayments map[int]*Payment `json:"monthlyPayments"`
	Status          PaymentStatus    `json:"status"`
	NextDueDate     time.Time        `json:"nextDueDate"`
}

// CommitteeSummary aggregates collection figures for a committee
type CommitteeSummary struct {
	CommitteeID     string          `json:"committeeId"`
	Status          CommitteeStatus `json:"status"`
	CurrentMonth    int             `json:"currentMonth"`
	MemberCount     int             `json:"memberCount"`
	PaidCount       int             `json:"paidCount"`
	PendingCount    int             `json:"pendingCount"`
	OverdueCount    int             `json:"overdueCount"`
	TotalCollected  float64         `json:"totalCollected"`
	TotalLateFees   float64         `json:"totalLateFees"`
	TotalWithdrawn  float64         `json:"totalWithdrawn"`
	CyclesRecorded  int             `json:"cyclesRecorded"`
	MonthsRemaining int             `json:"monthsRemaining"`
}

// OverdueMember identifies a member behind on the current month
type OverdueMember struct {
	CommitteeID   string    `json:"committeeId"`
	CommitteeName string    `json:"committeeName"`
	MemberName    string    `json:"memberName"`
	Month         int       `json:"month"`
	DueDate       time.Time `json:"dueDate"`
	AmountDue     float64   `json:"amountDue"`
	DaysLate      int       `json:"daysLate"`
	AccruedFee    float64   `json:"accruedFee"`
}
