package postgres

import (
	"context"
	"fmt"

	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationPostgreSQL struct {
	db *gorm.DB
}

func NewReservationPostgreSQL(db *gorm.DB) repositories.ReservationRepository {
	return &ReservationPostgreSQL{db: db}
}

// CreateConfirmed books a slot inside a single transaction. The read takes a
// row-level write-intent lock (SELECT ... FOR UPDATE) on any confirmed row
// for the cell, so booking an already-taken cell returns ErrSlotTaken without
// an insert attempt. When the cell is free the read matches no rows and locks
// nothing, so concurrent bookings of the same free cell are decided by the
// partial unique index on confirmed (date, time_slot): the loser's insert
// fails with a unique violation, translated into the same ErrSlotTaken.
func (r *ReservationPostgreSQL) CreateConfirmed(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Reservation
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND time_slot = ? AND status = ?",
				reservation.Date, reservation.TimeSlot, models.ReservationConfirmed).
			Find(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check slot availability: %w", err)
		}
		if len(existing) > 0 {
			return repositories.ErrSlotTaken
		}

		reservation.Status = models.ReservationConfirmed
		if err := tx.Create(reservation).Error; err != nil {
			return slotInsertError(err)
		}
		return nil
	})
}

func (r *ReservationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update reservation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReservationPostgreSQL) List(ctx context.Context, filters repositories.ReservationFilters) ([]*models.Reservation, error) {
	query := r.applyFilters(ctx, filters)

	var reservations []*models.Reservation
	if err := query.Order("date ASC, time_slot ASC").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

func (r *ReservationPostgreSQL) ListWithUsers(ctx context.Context, filters repositories.ReservationFilters) ([]*models.Reservation, error) {
	query := r.applyFilters(ctx, filters).Preload("User")

	var reservations []*models.Reservation
	if err := query.Order("date DESC, time_slot DESC").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

func (r *ReservationPostgreSQL) applyFilters(ctx context.Context, filters repositories.ReservationFilters) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Reservation{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Date != nil {
		query = query.Where("date = ?", *filters.Date)
	}
	if filters.FromDate != nil {
		query = query.Where("date >= ?", *filters.FromDate)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	return query
}
