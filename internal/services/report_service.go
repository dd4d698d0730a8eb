package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mobile-bio-lab/lab-service/internal/events"
	"github.com/mobile-bio-lab/lab-service/internal/export"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
	"gorm.io/gorm"
)

// ReportService handles the report lifecycle: generation, completion, download
type ReportService interface {
	// ListByUser returns the reports for a user's samples.
	ListByUser(ctx context.Context, userID uint) ([]*ReportListEntry, error)

	// Generate manually creates a report for an existing sample.
	Generate(ctx context.Context, sampleID uint) (*models.Report, error)

	// Complete flips a report pending -> completed. Re-completing is
	// tolerated and re-stamps the completion date.
	Complete(ctx context.Context, reportID uint) (*models.Report, error)

	// Download renders a completed report to PDF bytes. A pending report
	// fails with ErrReportNotReady.
	Download(ctx context.Context, reportID uint) ([]byte, string, error)
}

type ReportListEntry struct {
	ID            uint                `json:"id"`
	SampleID      uint                `json:"sample_id"`
	SampleType    models.SampleType   `json:"sample_type"`
	Status        models.ReportStatus `json:"status"`
	GeneratedDate time.Time           `json:"generated_date"`
	CompletedDate *time.Time          `json:"completed_date,omitempty"`
	StudentName   string              `json:"student_name"`
}

type reportService struct {
	reports   repositories.ReportRepository
	samples   repositories.SampleRepository
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewReportService(
	reports repositories.ReportRepository,
	samples repositories.SampleRepository,
	publisher events.EventPublisher,
	logger utils.Logger,
) ReportService {
	return &reportService{
		reports:   reports,
		samples:   samples,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *reportService) ListByUser(ctx context.Context, userID uint) ([]*ReportListEntry, error) {
	details, err := s.reports.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]*ReportListEntry, 0, len(details))
	for _, d := range details {
		entries = append(entries, &ReportListEntry{
			ID:            d.Report.ID,
			SampleID:      d.Sample.ID,
			SampleType:    d.Sample.SampleType,
			Status:        d.Report.Status,
			GeneratedDate: d.Report.GeneratedDate,
			CompletedDate: d.Report.CompletedDate,
			StudentName:   d.Owner.FullName(),
		})
	}
	return entries, nil
}

func (s *reportService) Generate(ctx context.Context, sampleID uint) (*models.Report, error) {
	if _, err := s.samples.GetByID(ctx, sampleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSampleNotFound
		}
		return nil, fmt.Errorf("failed to load sample: %w", err)
	}

	report := &models.Report{
		SampleID:      sampleID,
		GeneratedDate: time.Now(),
		PDFPath:       newReportPath(),
		Status:        models.ReportPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Complete(ctx context.Context, reportID uint) (*models.Report, error) {
	report, err := s.reports.Complete(ctx, reportID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	if report.CompletedDate != nil {
		if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(
			events.EventReportCompleted,
			events.ReportCompletedEvent{
				ReportID:      report.ID,
				SampleID:      report.SampleID,
				CompletedDate: *report.CompletedDate,
			},
		)); err != nil {
			s.logger.LogError(err, "failed to publish report completed event", "report_id", report.ID)
		}
	}

	return report, nil
}

func (s *reportService) Download(ctx context.Context, reportID uint) ([]byte, string, error) {
	details, err := s.reports.GetWithDetails(ctx, reportID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrReportNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load report: %w", err)
	}

	if details.Report.Status != models.ReportCompleted {
		return nil, "", ErrReportNotReady
	}

	pdfBytes, err := export.RenderReportPDF(details)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("report_%d.pdf", reportID)
	return pdfBytes, filename, nil
}
