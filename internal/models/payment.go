package models

import (
	"time"
)

// PaymentMode represents how a contribution was paid
type PaymentMode string

const (
	PaymentModeCash    PaymentMode = "cash"
	PaymentModeBanking PaymentMode = "banking"
	PaymentModeOnline  PaymentMode = "online"
)

// PaymentStatus represents the state of a member's contribution
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Payment is an append-only record of a member contribution.
// Corrections are new records pointing at the replaced one through Supersedes.
type Payment struct {
	ID           string        `json:"id"`
	MemberName   string        `json:"memberName"`
	Amount       float64       `json:"amount"`
	LateFees     float64       `json:"lateFees"`
	PaymentMode  PaymentMode   `json:"paymentMode"`
	PaymentDate  *time.Time    `json:"paymentDate,omitempty"`
	DueDate      *time.Time    `json:"dueDate,omitempty"`
	PaymentMonth int           `json:"paymentMonth"`
	Status       PaymentStatus `json:"status"`
	Remarks      string        `json:"remarks,omitempty"`
	Supersedes   string        `json:"supersedes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// IsPaid checks if the payment counts as a completed contribution
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// PaymentCreation represents data for recording a payment
type PaymentCreation struct {
	MemberName   string      `json:"memberName" binding:"required"`
	Amount       float64     `json:"amount" binding:"gte=0"`
	PaymentMode  PaymentMode `json:"paymentMode" binding:"required,oneof=cash banking online"`
	PaymentDate  *time.Time  `json:"paymentDate,omitempty"`
	DueDate      *time.Time  `json:"dueDate,omitempty"`
	PaymentMonth int         `json:"paymentMonth" binding:"required,min=1"`
	Remarks      string      `json:"remarks,omitempty" binding:"max=500"`
}

// PaymentVoid represents a request to cancel a recorded payment
type PaymentVoid struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// WithdrawalCreation represents data for recording a monthly withdrawal
type WithdrawalCreation struct {
	Month          int       `json:"month" binding:"required,min=1"`
	WithdrawerName string    `json:"withdrawerName" binding:"required"`
	Amount         float64   `json:"amount" binding:"gte=0"`
	Date           time.Time `json:"date"`
}
