package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mobile-bio-lab/lab-service/internal/events"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

// SampleService handles sample submission and listing
type SampleService interface {
	// Submit validates and stores a sample together with its companion
	// pending report.
	Submit(ctx context.Context, userID uint, req *SubmitSampleRequest) (*SubmitSampleResult, error)

	// ListAll returns all samples with their owners (staff view).
	ListAll(ctx context.Context) ([]*SampleListEntry, error)
}

type SubmitSampleRequest struct {
	SampleType         string   `json:"sample_type" validate:"required,sample_type"`
	CollectionDateTime string   `json:"collection_date_time" validate:"required"`
	GeoLocation        *string  `json:"geo_location" validate:"omitempty,max=100"`
	Temperature        *float64 `json:"temperature"`
	PH                 *float64 `json:"ph" validate:"omitempty,min=0,max=14"`
	Salinity           *float64 `json:"salinity"`
	BarcodeID          *string  `json:"barcode_id" validate:"omitempty,max=50"`
}

type SubmitSampleResult struct {
	SampleID uint `json:"sample_id"`
	ReportID uint `json:"report_id"`
}

type SampleListEntry struct {
	ID          uint              `json:"id"`
	StudentName string            `json:"student_name"`
	SampleType  models.SampleType `json:"sample_type"`
	CollectedAt time.Time         `json:"collected_at"`
}

type sampleService struct {
	samples   repositories.SampleRepository
	publisher events.EventPublisher
	validator *utils.Validator
	logger    utils.Logger
}

func NewSampleService(
	samples repositories.SampleRepository,
	publisher events.EventPublisher,
	validator *utils.Validator,
	logger utils.Logger,
) SampleService {
	return &sampleService{
		samples:   samples,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

func (s *sampleService) Submit(ctx context.Context, userID uint, req *SubmitSampleRequest) (*SubmitSampleResult, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	collectedAt, err := time.Parse(time.RFC3339, req.CollectionDateTime)
	if err != nil {
		return nil, fmt.Errorf("%w: collection_date_time must be RFC 3339", ErrValidationFailed)
	}

	sample := &models.Sample{
		UserID:             userID,
		CollectionDateTime: collectedAt,
		SampleType:         models.SampleType(req.SampleType),
		GeoLocation:        req.GeoLocation,
		Temperature:        req.Temperature,
		PH:                 req.PH,
		Salinity:           req.Salinity,
		BarcodeID:          req.BarcodeID,
	}

	report := &models.Report{
		GeneratedDate: time.Now(),
		PDFPath:       newReportPath(),
		Status:        models.ReportPending,
	}

	if err := s.samples.CreateWithReport(ctx, sample, report); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(
		events.EventSampleSubmitted,
		events.SampleSubmittedEvent{
			SampleID:   sample.ID,
			UserID:     userID,
			SampleType: sample.SampleType,
			ReportID:   report.ID,
		},
	)); err != nil {
		s.logger.LogError(err, "failed to publish sample submitted event", "sample_id", sample.ID)
	}

	return &SubmitSampleResult{SampleID: sample.ID, ReportID: report.ID}, nil
}

func (s *sampleService) ListAll(ctx context.Context) ([]*SampleListEntry, error) {
	samples, err := s.samples.ListWithUsers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*SampleListEntry, 0, len(samples))
	for _, sample := range samples {
		entries = append(entries, &SampleListEntry{
			ID:          sample.ID,
			StudentName: sample.User.FullName(),
			SampleType:  sample.SampleType,
			CollectedAt: sample.CollectionDateTime,
		})
	}
	return entries, nil
}

// newReportPath produces a collision-free path identifier. A uuid rather than
// an id+timestamp concatenation, which collides under clock skew.
func newReportPath() string {
	return fmt.Sprintf("report_%s.pdf", uuid.NewString())
}
