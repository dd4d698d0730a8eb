package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/middleware"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

type SampleHandler struct {
	BaseHandler
	sampleService services.SampleService
}

func NewSampleHandler(sampleService services.SampleService, logger utils.Logger) *SampleHandler {
	return &SampleHandler{
		BaseHandler:   NewBaseHandler(logger),
		sampleService: sampleService,
	}
}

// Submit stores a sample and its companion pending report.
func (h *SampleHandler) Submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	var req services.SubmitSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting sample", "user_id", userID, "sample_type", req.SampleType)

	result, err := h.sampleService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Sample submitted successfully",
		Data:    result,
	})
}

// List returns all samples with their owners.
func (h *SampleHandler) List(c *gin.Context) {
	entries, err := h.sampleService.ListAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: entries})
}
