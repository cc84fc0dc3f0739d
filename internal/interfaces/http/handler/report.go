package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/rentledger/backend/internal/application/report"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Revenue returns the revenue breakdown for one period
func (h *ReportHandler) Revenue(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		h.BadRequest(c, "Query parameter 'period' is required (YYYY-MM)")
		return
	}

	result, err := h.reportService.Revenue(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Arrears returns unpaid and overdue invoices grouped by tenant
func (h *ReportHandler) Arrears(c *gin.Context) {
	result, err := h.reportService.Arrears(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
