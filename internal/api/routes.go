package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the ledger API on the given group
func RegisterRoutes(apiGroup *gin.RouterGroup, h *LedgerHandlers) {
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	committees := apiGroup.Group("/committees")
	{
		committees.POST("", h.CreateCommittee)
		committees.GET("", h.GetCommittees)
		committees.GET("/:id", h.GetCommittee)
		committees.GET("/:id/late-fee-settings", h.GetLateFeeSettings)
		committees.PUT("/:id/late-fee-settings", h.UpdateLateFeeSettings)
		committees.POST("/:id/payments", h.RecordPayment)
		committees.GET("/:id/payments", h.GetPayments)
		committees.POST("/:id/payments/:paymentId/supersede", h.SupersedePayment)
		committees.POST("/:id/payments/:paymentId/void", h.VoidPayment)
		committees.POST("/:id/withdrawals", h.RecordWithdrawal)
		committees.DELETE("/:id/cycles/:month", h.DeleteMonthlyCycle)
		committees.GET("/:id/statuses", h.GetMemberStatuses)
		committees.GET("/:id/summary", h.GetCommitteeSummary)
	}

	apiGroup.POST("/late-fees/compute", h.ComputeLateFee)
	apiGroup.GET("/reports/overdue", h.GetOverdueReport)
}
