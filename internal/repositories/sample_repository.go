package repositories

import (
	"context"

	"github.com/mobile-bio-lab/lab-service/internal/models"
)

// SampleRepository interface for sample submission and listing
type SampleRepository interface {
	// CreateWithReport inserts the sample and its companion pending report in
	// one transaction.
	CreateWithReport(ctx context.Context, sample *models.Sample, report *models.Report) error

	GetByID(ctx context.Context, id uint) (*models.Sample, error)

	// ListWithUsers returns all samples with their owners, newest collection
	// first (researcher dashboard view).
	ListWithUsers(ctx context.Context) ([]*models.Sample, error)
}

// ReportRepository interface for report lifecycle operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)

	// GetWithDetails joins the report with its sample and the sample's owner.
	GetWithDetails(ctx context.Context, id uint) (*ReportWithDetails, error)

	// ListByUser returns the reports belonging to a user's samples, newest first.
	ListByUser(ctx context.Context, userID uint) ([]*ReportWithDetails, error)

	// Complete flips the report to completed and stamps the completion time.
	// Re-completing an already completed report re-stamps the date.
	Complete(ctx context.Context, id uint) (*models.Report, error)
}
