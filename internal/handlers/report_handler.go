package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/middleware"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// List returns the caller's reports with sample details.
func (h *ReportHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	entries, err := h.reportService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: entries})
}

type generateReportRequest struct {
	SampleID uint `json:"sample_id" binding:"required"`
}

// Generate manually creates a report for an existing sample.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Sample ID is required",
			Details: err.Error(),
		})
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), req.SampleID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Report generated successfully",
		Data:    report,
	})
}

// Complete flips a report to completed.
func (h *ReportHandler) Complete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Completing report", "report_id", id)

	report, err := h.reportService.Complete(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Report completed successfully",
		Data:    report,
	})
}

// Download streams the rendered PDF for a completed report. Once the binary
// response has begun there is no JSON fallback; failures before rendering
// still map onto the error taxonomy.
func (h *ReportHandler) Download(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	pdfBytes, filename, err := h.reportService.Download(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename=`+filename)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
