package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mobile-bio-lab/lab-service/internal/auth"
	"github.com/mobile-bio-lab/lab-service/internal/config"
	"github.com/mobile-bio-lab/lab-service/internal/events"
	"github.com/mobile-bio-lab/lab-service/internal/mailer"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
	"gorm.io/gorm"
)

// AuthService handles registration, login and email verification
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	VerifyEmail(ctx context.Context, studentID, token string) (string, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) (*models.User, error)
}

type authService struct {
	users     repositories.UserRepository
	cfg       *config.Config
	mailer    mailer.Mailer
	publisher events.EventPublisher
	validator *utils.Validator
	logger    utils.Logger
}

func NewAuthService(
	users repositories.UserRepository,
	cfg *config.Config,
	m mailer.Mailer,
	publisher events.EventPublisher,
	validator *utils.Validator,
	logger utils.Logger,
) AuthService {
	return &authService{
		users:     users,
		cfg:       cfg,
		mailer:    m,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

type RegisterRequest struct {
	FirstName       string  `json:"first_name" validate:"required,min=1,max=50"`
	LastName        string  `json:"last_name" validate:"required,min=1,max=50"`
	StudentID       string  `json:"student_id" validate:"required,max=20"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	ConfirmPassword string  `json:"confirm_password" validate:"required"`
	Role            string  `json:"role" validate:"required,user_role"`
	MobileNo        *string `json:"mobile_no" validate:"omitempty,max=15"`
	City            *string `json:"city" validate:"omitempty,max=50"`

	// Set by the handler after storing the uploaded file, never bound from
	// client input.
	ProfilePicturePath *string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserInfo struct {
	UserID    uint            `json:"user_id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	StudentID string          `json:"student_id"`
	Role      models.UserRole `json:"role"`
	Verified  bool            `json:"verified"`
}

type LoginResult struct {
	User       UserInfo `json:"user"`
	RedirectTo string   `json:"redirect_to"`
	Token      string   `json:"-"`
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(req.Email), s.cfg.AllowedEmailDomain) {
		return nil, ErrEmailDomainNotAllowed
	}
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidationFailed)
	}

	exists, err := s.users.ExistsByEmailOrStudentID(ctx, req.Email, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken := uuid.NewString()
	user := &models.User{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		StudentID:         req.StudentID,
		Email:             strings.ToLower(req.Email),
		PasswordHash:      hash,
		Role:              models.UserRole(req.Role),
		MobileNo:          req.MobileNo,
		City:              req.City,
		ProfilePicture:    req.ProfilePicturePath,
		Verified:          false,
		VerificationToken: &verificationToken,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A registration racing past the existence check loses at the unique
		// constraint; report it as the same conflict.
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	verificationURL := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s&studentId=%s",
		s.cfg.BaseURL, verificationToken, url.QueryEscape(user.StudentID))
	if err := s.mailer.SendVerificationEmail(user.Email, user.FirstName, user.StudentID, verificationURL); err != nil {
		// Registration succeeded; the user can still be verified manually.
		s.logger.LogError(err, "failed to send verification email", "user_id", user.ID)
	}

	if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(
		events.EventUserRegistered,
		events.UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Role:      user.Role,
			StudentID: user.StudentID,
		},
	)); err != nil {
		s.logger.LogError(err, "failed to publish user registered event", "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Same error as a wrong password so responses don't reveal which
		// emails are registered.
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.cfg.JWTSecret, s.cfg.TokenTTL, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		User:       toUserInfo(user),
		RedirectTo: redirectForRole(user.Role),
		Token:      token,
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, studentID, token string) (string, error) {
	if studentID == "" || token == "" {
		return "", ErrVerificationInvalid
	}

	user, err := s.users.GetByVerification(ctx, studentID, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrVerificationInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user for verification: %w", err)
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return "", err
	}

	if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(
		events.EventUserVerified,
		events.UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Role:      user.Role,
			StudentID: user.StudentID,
		},
	)); err != nil {
		s.logger.LogError(err, "failed to publish user verified event", "user_id", user.ID)
	}

	return user.Email, nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	MobileNo  *string `json:"mobile_no" validate:"omitempty,max=15"`
	City      *string `json:"city" validate:"omitempty,max=50"`
}

// UpdateProfile mutates profile fields only; email and role are immutable
// after creation.
func (s *authService) UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.MobileNo != nil {
		user.MobileNo = req.MobileNo
	}
	if req.City != nil {
		user.City = req.City
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func toUserInfo(user *models.User) UserInfo {
	return UserInfo{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		StudentID: user.StudentID,
		Role:      user.Role,
		Verified:  user.Verified,
	}
}

func redirectForRole(role models.UserRole) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleStudent:
		return "/student/dashboard"
	case models.RoleResearcher:
		return "/researcher/dashboard"
	case models.RoleTechnician:
		return "/technician/dashboard"
	default:
		return "/dashboard"
	}
}
