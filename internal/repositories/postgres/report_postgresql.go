package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"gorm.io/gorm"
)

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

func (r *ReportPostgreSQL) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportPostgreSQL) GetWithDetails(ctx context.Context, id uint) (*repositories.ReportWithDetails, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Sample").
		Preload("Sample.User").
		First(&report, id).Error
	if err != nil {
		return nil, err
	}

	return &repositories.ReportWithDetails{
		Report: report,
		Sample: report.Sample,
		Owner:  report.Sample.User,
	}, nil
}

func (r *ReportPostgreSQL) ListByUser(ctx context.Context, userID uint) ([]*repositories.ReportWithDetails, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Joins("JOIN samples ON samples.id = reports.sample_id").
		Where("samples.user_id = ?", userID).
		Preload("Sample").
		Preload("Sample.User").
		Order("reports.generated_date DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	details := make([]*repositories.ReportWithDetails, 0, len(reports))
	for i := range reports {
		details = append(details, &repositories.ReportWithDetails{
			Report: reports[i],
			Sample: reports[i].Sample,
			Owner:  reports[i].Sample.User,
		})
	}
	return details, nil
}

func (r *ReportPostgreSQL) Complete(ctx context.Context, id uint) (*models.Report, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         models.ReportCompleted,
			"completed_date": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to complete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
