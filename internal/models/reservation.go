package models

import (
	"time"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is one hour-granularity booking of the lab. A (Date, TimeSlot)
// cell may hold at most one confirmed reservation; cancelled rows never block
// a new booking. The partial unique index on confirmed cells is what enforces
// the at-most-one guarantee under concurrent inserts; the locking read in the
// repository only serializes the common already-booked case.
type Reservation struct {
	ID       uint              `json:"id" gorm:"primaryKey"`
	UserID   uint              `json:"user_id" gorm:"not null;index:idx_user_date"`
	Date     string            `json:"date" gorm:"type:date;not null;index:idx_slot,priority:1;uniqueIndex:udx_reservations_confirmed_slot,priority:1,where:status = 'confirmed'" validate:"required,calendar_date"`
	TimeSlot string            `json:"time_slot" gorm:"size:5;not null;index:idx_slot,priority:2;uniqueIndex:udx_reservations_confirmed_slot,priority:2,where:status = 'confirmed'" validate:"required,time_slot"`
	Status   ReservationStatus `json:"status" gorm:"size:10;not null;default:pending;index:idx_slot,priority:3"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (Reservation) TableName() string {
	return "reservations"
}
