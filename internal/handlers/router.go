package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/config"
	"github.com/mobile-bio-lab/lab-service/internal/middleware"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

type HandlerManager struct {
	cfg                *config.Config
	authHandler        *AuthHandler
	reservationHandler *ReservationHandler
	sampleHandler      *SampleHandler
	reportHandler      *ReportHandler
	adminHandler       *AdminHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	cfg *config.Config,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		cfg:                cfg,
		authHandler:        NewAuthHandler(serviceManager.Auth(), cfg, logger),
		reservationHandler: NewReservationHandler(serviceManager.Reservation(), logger),
		sampleHandler:      NewSampleHandler(serviceManager.Sample(), logger),
		reportHandler:      NewReportHandler(serviceManager.Report(), logger),
		adminHandler:       NewAdminHandler(serviceManager.Admin(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	// Uploaded profile pictures
	router.Static("/uploads", hm.cfg.UploadsDir)

	requireAuth := middleware.RequireAuth(hm.cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.POST("/logout", hm.authHandler.Logout)
			auth.GET("/verify", requireAuth, hm.authHandler.Verify)
			auth.GET("/verify-email", hm.authHandler.VerifyEmail)
		}

		// Profile routes
		v1.GET("/profile", requireAuth, hm.authHandler.GetProfile)
		v1.PUT("/profile", requireAuth, hm.authHandler.UpdateProfile)

		// Reservation routes
		reservations := v1.Group("/reservations", requireAuth)
		{
			reservations.GET("", hm.reservationHandler.List)
			reservations.POST("", hm.reservationHandler.Create)
			reservations.POST("/:id/cancel", hm.reservationHandler.Cancel)
		}

		// Sample routes
		samples := v1.Group("/samples", requireAuth)
		{
			samples.GET("", hm.sampleHandler.List)
			samples.POST("", hm.sampleHandler.Submit)
		}

		// Report routes
		reports := v1.Group("/reports", requireAuth)
		{
			reports.GET("", hm.reportHandler.List)
			reports.POST("", hm.reportHandler.Generate)
			reports.POST("/:id/complete", hm.reportHandler.Complete)
			reports.GET("/:id/download", hm.reportHandler.Download)
		}

		// Admin routes
		admin := v1.Group("/admin", requireAuth, adminOnly)
		{
			admin.GET("/stats", hm.adminHandler.Stats)
			admin.GET("/users", hm.adminHandler.Users)
			admin.DELETE("/users/:id", hm.adminHandler.DeleteUser)
		}

		// Bulk export (admin only)
		v1.GET("/export/admin", requireAuth, adminOnly, hm.adminHandler.Export)
	}
}

// HealthCheck reports process liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
