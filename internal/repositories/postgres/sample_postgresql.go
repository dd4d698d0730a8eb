package postgres

import (
	"context"
	"fmt"

	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"gorm.io/gorm"
)

type SamplePostgreSQL struct {
	db *gorm.DB
}

func NewSamplePostgreSQL(db *gorm.DB) repositories.SampleRepository {
	return &SamplePostgreSQL{db: db}
}

// CreateWithReport inserts the sample and its companion pending report
// atomically, so a submitted sample always has exactly one pending report.
func (s *SamplePostgreSQL) CreateWithReport(ctx context.Context, sample *models.Sample, report *models.Report) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sample).Error; err != nil {
			return fmt.Errorf("failed to create sample: %w", err)
		}

		report.SampleID = sample.ID
		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		return nil
	})
}

func (s *SamplePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Sample, error) {
	var sample models.Sample
	if err := s.db.WithContext(ctx).First(&sample, id).Error; err != nil {
		return nil, err
	}
	return &sample, nil
}

func (s *SamplePostgreSQL) ListWithUsers(ctx context.Context) ([]*models.Sample, error) {
	var samples []*models.Sample
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("collection_date_time DESC").
		Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	return samples, nil
}
