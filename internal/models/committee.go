package models

import (
	"time"
)

// CommitteeStatus represents committee status
type CommitteeStatus string

const (
	CommitteeStatusActive    CommitteeStatus = "active"
	CommitteeStatusCompleted CommitteeStatus = "completed"
)

// Member is a participant of a committee. Name is the natural key within a committee.
type Member struct {
	Name    string `json:"name" binding:"required,max=100"`
	Mobile  string `json:"mobile,omitempty" binding:"omitempty,phone"`
	Email   string `json:"email,omitempty" binding:"omitempty,email"`
	Address string `json:"address,omitempty" binding:"max=500"`
}

// MonthlyCycle is the settlement recorded when a member withdraws the pooled fund for a month
type MonthlyCycle struct {
	Month                  int                `json:"month"`
	WithdrawerName         string             `json:"withdrawerName"`
	WithdrawAmount         float64            `json:"withdrawAmount"`
	WithdrawalDate         time.Time          `json:"withdrawalDate"`
	BalanceLeft            float64            `json:"balanceLeft"`
	LossPercentage         float64            `json:"lossPercentage"`
	NextMonthContributions map[string]float64 `json:"nextMonthContributions"`
	IsHead                 bool               `json:"isHead"`
	IsLastMember           bool               `json:"isLastMember"`
}

// Committee represents a chit-fund committee
type Committee struct {
	ID                         string          `json:"id"`
	Name                       string          `json:"name"`
	MemberList                 []Member        `json:"memberList"`
	MonthlyAmount              float64         `json:"monthlyAmount"`
	Duration                   int             `json:"duration"`
	StartDate                  time.Time       `json:"startDate"`
	CommitteeHeadRef           string          `json:"committeeHeadRef"`
	GovernmentDeductionPercent float64         `json:"governmentDeductionPercent"`
	Status                     CommitteeStatus `json:"status"`
	CurrentMonth               int             `json:"currentMonth"`
	MonthlyCycles              []MonthlyCycle  `json:"monthlyCycles"`
	CompletedAt                *time.Time      `json:"completedAt,omitempty"`
	CreatedAt                  time.Time       `json:"createdAt"`
	UpdatedAt                  time.Time       `json:"updatedAt"`
}

// CommitteeCreation represents data for creating a new committee. Member count and duration
// are capped since every status read walks Duration months for each member.
type CommitteeCreation struct {
	Name                       string    `json:"name" binding:"required,max=100"`
	MemberList                 []Member  `json:"memberList" binding:"required,min=1,max=100,dive"`
	MonthlyAmount              float64   `json:"monthlyAmount" binding:"required,gt=0"`
	Duration                   int       `json:"duration" binding:"required,min=1,max=120"`
	StartDate                  time.Time `json:"startDate" binding:"required"`
	CommitteeHeadRef           string    `json:"committeeHeadRef" binding:"required"`
	GovernmentDeductionPercent float64   `json:"governmentDeductionPercent" binding:"gte=0,lte=100"`
}

// MemberCount returns the number of members in the committee
func (c *Committee) MemberCount() int {
	return len(c.MemberList)
}

// TotalContribution is the pooled fund collected in a full month
func (c *Committee) TotalContribution() float64 {
	return float64(c.MemberCount()) * c.MonthlyAmount
}

// HasMember checks if a member with the given name belongs to the committee
func (c *Committee) HasMember(name string) bool {
	for _, m := range c.MemberList {
		if m.Name == name {
			return true
		}
	}
	return false
}

// IsCompleted reports whether the committee has finished all its cycles
func (c *Committee) IsCompleted() bool {
	return c.Status == CommitteeStatusCompleted || c.CompletedAt != nil || len(c.MonthlyCycles) >= c.Duration
}

// CycleFor returns the recorded cycle for a month, if any
func (c *Committee) CycleFor(month int) (*MonthlyCycle, bool) {
	for i := range c.MonthlyCycles {
		if c.MonthlyCycles[i].Month == month {
			return &c.MonthlyCycles[i], true
		}
	}
	return nil, false
}

// LastCycleMonth returns the highest month with a recorded cycle, 0 when none exists
func (c *Committee) LastCycleMonth() int {
	last := 0
	for _, cycle := range c.MonthlyCycles {
		if cycle.Month > last {
			last = cycle.Month
		}
	}
	return last
}

// DueDate returns the date contributions for the given 1-based month fall due
func (c *Committee) DueDate(month int) time.Time {
	if month < 1 {
		month = 1
	}
	return c.StartDate.AddDate(0, month-1, 0)
}
