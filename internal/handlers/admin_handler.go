package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  NewBaseHandler(logger),
		adminService: adminService,
	}
}

// Stats returns the dashboard aggregates.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: stats})
}

// Users returns a page of users.
func (h *AdminHandler) Users(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "5"))

	result, err := h.adminService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: result})
}

// DeleteUser removes a user and their owned reservations and samples.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting user", "target_user_id", id)

	if err := h.adminService.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "User deleted successfully",
	})
}

// Export streams the filtered bulk user export as PDF or XLSX.
func (h *AdminHandler) Export(c *gin.Context) {
	city := c.Query("city")
	role := c.Query("role")
	format := services.ExportFormat(c.DefaultQuery("format", "pdf"))

	data, filename, contentType, err := h.adminService.ExportUsers(c.Request.Context(), city, role, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
