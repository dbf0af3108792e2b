package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chitfund-backend/internal/ledger"
	"chitfund-backend/internal/models"
	"chitfund-backend/internal/services"
	"chitfund-backend/internal/store"
	"chitfund-backend/internal/utils"
)

// LedgerHandlers handles committee ledger requests
type LedgerHandlers struct {
	ledger *services.LedgerService
	log    *zap.SugaredLogger
}

// NewLedgerHandlers creates a new ledger handlers instance
func NewLedgerHandlers(ledgerService *services.LedgerService, log *zap.SugaredLogger) *LedgerHandlers {
	// request types carry custom binding rules
	utils.RegisterValidations()
	return &LedgerHandlers{
		ledger: ledgerService,
		log:    log,
	}
}

// statusFor maps ledger errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrCommitteeNotFound),
		errors.Is(err, ledger.ErrPaymentNotFound),
		errors.Is(err, ledger.ErrCycleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrCommitteeCompleted),
		errors.Is(err, ledger.ErrDuplicateMonth):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidWithdrawer),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnknownMember),
		errors.Is(err, ledger.ErrInvalidMonth),
		errors.Is(err, ledger.ErrInvalidPaymentMode),
		errors.Is(err, ledger.ErrInvalidCommittee),
		errors.Is(err, ledger.ErrInvalidSettings),
		errors.Is(err, ledger.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrLockTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *LedgerHandlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Errorw("❌ Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		message = "Internal server error"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

// CreateCommittee creates a committee
func (h *LedgerHandlers) CreateCommittee(c *gin.Context) {
	var req models.CommitteeCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	committee, err := h.ledger.CreateCommittee(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Committee created successfully",
		"data":    committee,
	})
}

// GetCommittees lists every committee
func (h *LedgerHandlers) GetCommittees(c *gin.Context) {
	committees, err := h.ledger.ListCommittees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    committees,
		"count":   len(committees),
	})
}

// GetCommittee returns one committee
func (h *LedgerHandlers) GetCommittee(c *gin.Context) {
	committee, err := h.ledger.GetCommittee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    committee,
	})
}

// GetLateFeeSettings returns a committee's late fee settings
func (h *LedgerHandlers) GetLateFeeSettings(c *gin.Context) {
	settings, err := h.ledger.GetLateFeeSettings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// UpdateLateFeeSettings replaces a committee's late fee settings
func (h *LedgerHandlers) UpdateLateFeeSettings(c *gin.Context) {
	var req models.LateFeeSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	if err := h.ledger.SetLateFeeSettings(c.Request.Context(), c.Param("id"), req); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Late fee settings updated successfully",
		"data":    req,
	})
}

// RecordPayment records a member contribution
func (h *LedgerHandlers) RecordPayment(c *gin.Context) {
	var req models.PaymentCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	payment, err := h.ledger.RecordPayment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment recorded successfully",
		"data":    payment,
	})
}

// GetPayments returns the payment history of a committee
func (h *LedgerHandlers) GetPayments(c *gin.Context) {
	payments, err := h.ledger.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payments,
		"count":   len(payments),
	})
}

// SupersedePayment records a corrected payment in place of an earlier one
func (h *LedgerHandlers) SupersedePayment(c *gin.Context) {
	var req models.PaymentCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	payment, err := h.ledger.SupersedePayment(c.Request.Context(), c.Param("id"), c.Param("paymentId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment corrected successfully",
		"data":    payment,
	})
}

// VoidPayment cancels a recorded payment
func (h *LedgerHandlers) VoidPayment(c *gin.Context) {
	var req models.PaymentVoid
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	void, err := h.ledger.VoidPayment(c.Request.Context(), c.Param("id"), c.Param("paymentId"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment voided successfully",
		"data":    void,
	})
}

// RecordWithdrawal settles a month's withdrawal
func (h *LedgerHandlers) RecordWithdrawal(c *gin.Context) {
	var req models.WithdrawalCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	cycle, err := h.ledger.RecordWithdrawal(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Withdrawal recorded successfully",
		"data":    cycle,
	})
}

// DeleteMonthlyCycle removes a recorded withdrawal
func (h *LedgerHandlers) DeleteMonthlyCycle(c *gin.Context) {
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		badRequest(c, "Month must be a number")
		return
	}

	if err := h.ledger.DeleteMonthlyCycle(c.Request.Context(), c.Param("id"), month); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Monthly cycle deleted successfully",
	})
}

// GetMemberStatuses returns every member's payment status
func (h *LedgerHandlers) GetMemberStatuses(c *gin.Context) {
	statuses, err := h.ledger.GetMemberStatuses(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    statuses,
	})
}

// GetCommitteeSummary returns collection totals for a committee
func (h *LedgerHandlers) GetCommitteeSummary(c *gin.Context) {
	summary, err := h.ledger.GetCommitteeSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// ComputeLateFee computes a late fee with explicit, committee or default settings
func (h *LedgerHandlers) ComputeLateFee(c *gin.Context) {
	var req models.LateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	var fee float64
	switch {
	case req.Settings != nil:
		if err := ledger.ValidateSettings(*req.Settings); err != nil {
			h.fail(c, err)
			return
		}
		fee = h.ledger.ComputeLateFee(req.DueDate, req.PaymentDate, *req.Settings)
	case req.CommitteeID != "":
		var err error
		fee, err = h.ledger.ComputeCommitteeLateFee(c.Request.Context(), req.CommitteeID, req.DueDate, req.PaymentDate)
		if err != nil {
			h.fail(c, err)
			return
		}
	default:
		fee = h.ledger.ComputeLateFee(req.DueDate, req.PaymentDate, h.ledger.DefaultLateFeeSettings())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"lateFee": fee,
		},
	})
}

// GetOverdueReport sweeps every committee for overdue members
func (h *LedgerHandlers) GetOverdueReport(c *gin.Context) {
	overdue, err := h.ledger.SweepOverdue(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    overdue,
		"count":   len(overdue),
	})
}
