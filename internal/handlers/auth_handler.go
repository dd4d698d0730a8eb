package handlers

import (
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mobile-bio-lab/lab-service/internal/config"
	"github.com/mobile-bio-lab/lab-service/internal/middleware"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService services.AuthService, cfg *config.Config, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		cfg:         cfg,
	}
}

// Register creates a new account from a multipart form with an optional
// profile picture, and sends a verification email.
func (h *AuthHandler) Register(c *gin.Context) {
	var mobileNo, city *string
	if v := c.PostForm("mobileNumber"); v != "" {
		mobileNo = &v
	}
	if v := c.PostForm("city"); v != "" {
		city = &v
	}

	req := services.RegisterRequest{
		FirstName:       c.PostForm("firstName"),
		LastName:        c.PostForm("lastName"),
		StudentID:       c.PostForm("studentId"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
		Role:            c.DefaultPostForm("role", "student"),
		MobileNo:        mobileNo,
		City:            city,
	}

	if file, err := c.FormFile("profilePicture"); err == nil {
		filename := "profile-" + uuid.NewString() + filepath.Ext(file.Filename)
		dst := filepath.Join(h.cfg.UploadsDir, filename)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			h.logger.LogError(err, "failed to store profile picture")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
			return
		}
		path := "/uploads/" + filename
		req.ProfilePicturePath = &path
	}

	h.LogRequest(c, "Registering user", "email", req.Email)

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "User registered successfully. Please check your email for verification.",
		Data:    gin.H{"user_id": user.ID},
	})
}

// Login authenticates the user and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(h.cfg.TokenTTL.Seconds()))

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Login successful",
		Data: gin.H{
			"user":        result.User,
			"redirect_to": result.RedirectTo,
		},
	})
}

// Logout clears the session cookie. The token itself stays valid until its
// expiry; logout is a client-side invalidation.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Verify returns the authenticated user's current record.
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    gin.H{"user": user},
	})
}

// VerifyEmail consumes the emailed verification link and redirects to the
// success page.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	studentID := c.Query("studentId")

	email, err := h.authService.VerifyEmail(c.Request.Context(), studentID, token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.cfg.BaseURL+"/verify-success?email="+url.QueryEscape(email))
}

// GetProfile returns the caller's own profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	h.Verify(c)
}

// UpdateProfile mutates the caller's profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Profile updated",
		Data:    gin.H{"user": user},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.cfg.IsProduction(), true)
}
