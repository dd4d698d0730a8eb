package repositories

import (
	"context"

	"github.com/mobile-bio-lab/lab-service/internal/models"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user and, through FK cascade, their reservations
	// and samples.
	Delete(ctx context.Context, id uint) error

	// Validation and checks
	ExistsByEmailOrStudentID(ctx context.Context, email, studentID string) (bool, error)
	ExistsAdmin(ctx context.Context, email string) (bool, error)

	// Email verification
	GetByVerification(ctx context.Context, studentID, token string) (*models.User, error)
	MarkVerified(ctx context.Context, id uint) error

	// Listing
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Statistics (admin dashboard)
	GetAdminStats(ctx context.Context) (*AdminStats, error)
}
