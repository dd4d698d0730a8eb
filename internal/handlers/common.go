package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// Every endpoint returns one stable envelope shape so clients never have to
// sniff for the payload.

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
		"timestamp", time.Now().Format(time.RFC3339),
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// handleServiceError maps service errors onto the HTTP error taxonomy.
// Internal failures never leak storage detail into the response body.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case services.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case services.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	case services.IsInvalidState(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	default:
		h.logger.LogError(err, "unhandled service error", "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// parseIDParam parses a numeric path parameter, writing the 400 itself on
// failure. The zero return signals the caller to stop.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(id)
}
