package repositories

import (
	"context"

	"github.com/mobile-bio-lab/lab-service/internal/models"
)

// ReservationRepository interface for slot booking operations
type ReservationRepository interface {
	// CreateConfirmed books a (date, timeSlot) cell for a user. The existence
	// check and insert run in one transaction with a write-intent lock on
	// matching confirmed rows, so two contenders for the same cell serialize;
	// the loser gets services.ErrSlotTaken. Cancelled rows never block.
	CreateConfirmed(ctx context.Context, reservation *models.Reservation) error

	GetByID(ctx context.Context, id uint) (*models.Reservation, error)

	// UpdateStatus persists a status transition.
	UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) error

	// List returns filtered reservations, most recent first when no date
	// filter applies.
	List(ctx context.Context, filters ReservationFilters) ([]*models.Reservation, error)

	// ListWithUsers preloads the owning user for staff-facing listings.
	ListWithUsers(ctx context.Context, filters ReservationFilters) ([]*models.Reservation, error)
}
