package repositories

import "errors"

// ErrSlotTaken is returned by ReservationRepository.CreateConfirmed when the
// (date, timeSlot) cell already holds a confirmed reservation.
var ErrSlotTaken = errors.New("time slot already booked")

// ErrDuplicateUser is returned by UserRepository.Create when the email or
// student id unique constraint rejects the insert.
var ErrDuplicateUser = errors.New("email or student id already taken")
