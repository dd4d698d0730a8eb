package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mobile-bio-lab/lab-service/internal/cache"
	"github.com/mobile-bio-lab/lab-service/internal/events"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
	"gorm.io/gorm"
)

// slotCacheTTL bounds staleness of the per-date availability listing; writes
// invalidate the date's entry anyway, the TTL only covers external mutation.
const slotCacheTTL = time.Minute

// ReservationService handles slot booking and the conflict-avoidance protocol
type ReservationService interface {
	// Book reserves a (date, timeSlot) cell for the user. Exactly one of N
	// concurrent calls for the same cell succeeds; the rest get ErrSlotTaken.
	Book(ctx context.Context, userID uint, req *BookSlotRequest) (*models.Reservation, error)

	// Cancel transitions the caller's confirmed reservation to cancelled,
	// freeing the cell for re-booking.
	Cancel(ctx context.Context, userID uint, reservationID uint) (*models.Reservation, error)

	// ListByDate returns confirmed reservations for a calendar date.
	ListByDate(ctx context.Context, date string) ([]*models.Reservation, error)

	// ListUpcoming returns the user's own upcoming confirmed reservations.
	ListUpcoming(ctx context.Context, userID uint) ([]*models.Reservation, error)

	// ListAll returns recent reservations with their owners (staff view).
	ListAll(ctx context.Context) ([]*ReservationListEntry, error)
}

type BookSlotRequest struct {
	Date     string `json:"date" validate:"required,calendar_date"`
	TimeSlot string `json:"time_slot" validate:"required,time_slot"`
}

type ReservationListEntry struct {
	ID          uint                     `json:"id"`
	StudentName string                   `json:"student_name"`
	Date        string                   `json:"date"`
	TimeSlot    string                   `json:"time_slot"`
	Status      models.ReservationStatus `json:"status"`
}

type reservationService struct {
	reservations repositories.ReservationRepository
	cache        cache.CacheService
	publisher    events.EventPublisher
	validator    *utils.Validator
	logger       utils.Logger
}

func NewReservationService(
	reservations repositories.ReservationRepository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	validator *utils.Validator,
	logger utils.Logger,
) ReservationService {
	return &reservationService{
		reservations: reservations,
		cache:        cacheService,
		publisher:    publisher,
		validator:    validator,
		logger:       logger,
	}
}

func (s *reservationService) Book(ctx context.Context, userID uint, req *BookSlotRequest) (*models.Reservation, error) {
	// Malformed input fails here, before any storage round-trip.
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		UserID:   userID,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
	}

	if err := s.reservations.CreateConfirmed(ctx, reservation); err != nil {
		if errors.Is(err, repositories.ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	s.invalidateSlots(ctx, req.Date)

	if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(
		events.EventReservationConfirmed,
		events.ReservationEvent{
			ReservationID: reservation.ID,
			UserID:        userID,
			Date:          reservation.Date,
			TimeSlot:      reservation.TimeSlot,
		},
	)); err != nil {
		s.logger.LogError(err, "failed to publish reservation confirmed event", "reservation_id", reservation.ID)
	}

	return reservation, nil
}

func (s *reservationService) Cancel(ctx context.Context, userID uint, reservationID uint) (*models.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}

	if reservation.UserID != userID {
		return nil, ErrReservationNotOwned
	}
	if reservation.Status != models.ReservationConfirmed {
		return nil, ErrReservationNotActive
	}

	if err := s.reservations.UpdateStatus(ctx, reservationID, models.ReservationCancelled); err != nil {
		return nil, err
	}
	reservation.Status = models.ReservationCancelled

	s.invalidateSlots(ctx, reservation.Date)

	if err := s.publisher.PublishNotificationEvent(ctx, events.NewNotificationEvent(
		events.EventReservationCancelled,
		events.ReservationEvent{
			ReservationID: reservation.ID,
			UserID:        userID,
			Date:          reservation.Date,
			TimeSlot:      reservation.TimeSlot,
		},
	)); err != nil {
		s.logger.LogError(err, "failed to publish reservation cancelled event", "reservation_id", reservation.ID)
	}

	return reservation, nil
}

func (s *reservationService) ListByDate(ctx context.Context, date string) ([]*models.Reservation, error) {
	if err := s.validator.Var(date, "required,calendar_date"); err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrValidationFailed)
	}

	cacheKey := slotsCacheKey(date)
	var cached []*models.Reservation
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	confirmed := models.ReservationConfirmed
	reservations, err := s.reservations.List(ctx, repositories.ReservationFilters{
		Date:   &date,
		Status: &confirmed,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, reservations, slotCacheTTL); err != nil {
		s.logger.Warn("failed to cache slot availability", "date", date, "error", err)
	}

	return reservations, nil
}

func (s *reservationService) ListUpcoming(ctx context.Context, userID uint) ([]*models.Reservation, error) {
	today := time.Now().Format("2006-01-02")
	confirmed := models.ReservationConfirmed
	return s.reservations.List(ctx, repositories.ReservationFilters{
		UserID:   &userID,
		FromDate: &today,
		Status:   &confirmed,
	})
}

func (s *reservationService) ListAll(ctx context.Context) ([]*ReservationListEntry, error) {
	reservations, err := s.reservations.ListWithUsers(ctx, repositories.ReservationFilters{Limit: 100})
	if err != nil {
		return nil, err
	}

	entries := make([]*ReservationListEntry, 0, len(reservations))
	for _, r := range reservations {
		entries = append(entries, &ReservationListEntry{
			ID:          r.ID,
			StudentName: r.User.FullName(),
			Date:        r.Date,
			TimeSlot:    r.TimeSlot,
			Status:      r.Status,
		})
	}
	return entries, nil
}

func (s *reservationService) invalidateSlots(ctx context.Context, date string) {
	if err := s.cache.Delete(ctx, slotsCacheKey(date)); err != nil {
		s.logger.Warn("failed to invalidate slot cache", "date", date, "error", err)
	}
}

func slotsCacheKey(date string) string {
	return "slots:" + date
}
