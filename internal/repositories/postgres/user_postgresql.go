package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return userInsertError(err)
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := u.db.WithContext(ctx).Unscoped().Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (u *UserPostgreSQL) ExistsByEmailOrStudentID(ctx context.Context, email, studentID string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR student_id = ?", email, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) ExistsAdmin(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? AND role = ?", email, models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) GetByVerification(ctx context.Context, studentID, token string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("student_id = ? AND verification_token = ? AND verified = ?", studentID, token, false).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) MarkVerified(ctx context.Context, id uint) error {
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified":           true,
			"verification_token": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := u.db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.City != nil {
		query = query.Where("city = ?", *filters.City)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var users []*models.User
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (u *UserPostgreSQL) GetAdminStats(ctx context.Context) (*repositories.AdminStats, error) {
	today := time.Now().Format("2006-01-02")

	var stats repositories.AdminStats
	err := u.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS total_users,
			(SELECT COUNT(*) FROM users WHERE role = 'student' AND deleted_at IS NULL) AS total_students,
			(SELECT COUNT(*) FROM users WHERE role = 'researcher' AND deleted_at IS NULL) AS total_researchers,
			(SELECT COUNT(*) FROM users WHERE role = 'technician' AND deleted_at IS NULL) AS total_technicians,
			(SELECT COUNT(*) FROM users WHERE role = 'admin' AND deleted_at IS NULL) AS total_admins,
			(SELECT COUNT(*) FROM reservations WHERE date = ?) AS total_reservations_today,
			(SELECT COUNT(*) FROM samples WHERE collection_date_time::date = ?::date) AS total_samples_today,
			(SELECT COUNT(*) FROM reports) AS total_reports
	`, today, today).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}

	return &stats, nil
}
