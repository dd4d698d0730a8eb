package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mobile-bio-lab/lab-service/internal/cache"
	"github.com/mobile-bio-lab/lab-service/internal/export"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
	"gorm.io/gorm"
)

const statsCacheKey = "admin:stats"
const statsCacheTTL = 30 * time.Second

// ExportFormat selects the rendering of the bulk user export.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

// AdminService handles the admin dashboard operations
type AdminService interface {
	GetStats(ctx context.Context) (*repositories.AdminStats, error)
	ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error)
	DeleteUser(ctx context.Context, id uint) error

	// ExportUsers renders a filtered user listing as PDF or XLSX bytes and
	// returns the bytes, a filename and the content type.
	ExportUsers(ctx context.Context, city, role string, format ExportFormat) ([]byte, string, string, error)
}

type UserPage struct {
	Users    []*models.User `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type adminService struct {
	users  repositories.UserRepository
	cache  cache.CacheService
	logger utils.Logger
}

func NewAdminService(users repositories.UserRepository, cacheService cache.CacheService, logger utils.Logger) AdminService {
	return &adminService{
		users:  users,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *adminService) GetStats(ctx context.Context) (*repositories.AdminStats, error) {
	var cached repositories.AdminStats
	if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	stats, err := s.users.GetAdminStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
		s.logger.Warn("failed to cache admin stats", "error", err)
	}

	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 5
	}

	users, total, err := s.users.List(ctx, repositories.UserFilters{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:    users,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uint) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *adminService) ExportUsers(ctx context.Context, city, role string, format ExportFormat) ([]byte, string, string, error) {
	filters := repositories.UserFilters{}
	if city != "" {
		filters.City = &city
	}
	if role != "" {
		r := models.UserRole(role)
		filters.Role = &r
	}

	users, _, err := s.users.List(ctx, filters)
	if err != nil {
		return nil, "", "", err
	}

	datePart := time.Now().Format("2006-01-02")
	base := "users-export"
	if city != "" {
		base += "-" + city
	}
	if role != "" {
		base += "-" + role
	}

	switch format {
	case ExportXLSX:
		data, err := export.RenderUsersXLSX(users)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("%s-%s.xlsx", base, datePart)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case ExportPDF, "":
		data, err := export.RenderUsersPDF(users, city, role)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("%s-%s.pdf", base, datePart)
		return data, filename, "application/pdf", nil
	default:
		return nil, "", "", fmt.Errorf("%w: unsupported export format %q", ErrValidationFailed, format)
	}
}
